package contracts

import "testing"

func TestTickerPairIsValid(t *testing.T) {
	tests := []struct {
		name string
		pair TickerPair
		want bool
	}{
		{"complete pair", TickerPair{Fund: "PDI", NAV: "XPDIX", FundType: "Taxable Bond"}, true},
		{"missing NAV", TickerPair{Fund: "PDI"}, false},
		{"missing fund", TickerPair{NAV: "XPDIX"}, false},
		{"empty", TickerPair{}, false},
		{"missing fund type is still valid", TickerPair{Fund: "PDI", NAV: "XPDIX"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pair.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFundMetadataDisplayName(t *testing.T) {
	name := "PIMCO Dynamic Income Fund"
	empty := ""

	tests := []struct {
		name string
		meta FundMetadata
		want string
	}{
		{"long name present", FundMetadata{LongName: &name}, "PIMCO Dynamic Income Fund"},
		{"long name absent", FundMetadata{}, "PDI"},
		{"long name empty string", FundMetadata{LongName: &empty}, "PDI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.DisplayName("PDI"); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportFileName(t *testing.T) {
	r := Report{Date: "2024-07-03"}
	want := "Closed_End_Fund_Data_2024-07-03.xlsx"
	if got := r.FileName(); got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}
