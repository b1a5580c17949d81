package yahoo

// rawValue is Yahoo's {"raw": 123, "fmt": "123"} numeric envelope.
// Absent keys decode to a nil pointer.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// chartResponse models /v8/finance/chart
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamps []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// summaryResponse models /v10/finance/quoteSummary
type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price *struct {
		LongName  string `json:"longName"`
		ShortName string `json:"shortName"`
		Symbol    string `json:"symbol"`
	} `json:"price"`
	DefaultKeyStatistics *struct {
		SharesOutstanding *rawValue `json:"sharesOutstanding"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		TotalDebt *rawValue `json:"totalDebt"`
	} `json:"financialData"`
}
