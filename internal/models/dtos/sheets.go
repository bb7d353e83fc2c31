package dtos

// Google Sheets API response structures (the subset the sync reads).

type SpreadsheetMeta struct {
	SpreadsheetID string          `json:"spreadsheetId"`
	Properties    SpreadsheetProp `json:"properties"`
	Sheets        []SheetEntry    `json:"sheets"`
}

type SpreadsheetProp struct {
	Title    string `json:"title"`
	TimeZone string `json:"timeZone"` // IANA name, e.g. America/Chicago
}

type SheetEntry struct {
	Properties SheetProperties `json:"properties"`
}

type SheetProperties struct {
	SheetID int    `json:"sheetId"`
	Title   string `json:"title"`
	Index   int    `json:"index"`
}

type ValueRange struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension"`
	Values         [][]interface{} `json:"values"`
}

type AppendRequest struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension"`
	Values         [][]interface{} `json:"values"`
}
