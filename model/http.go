package model

type FilesResponse struct {
	Root  string           `json:"root"`
	Count int              `json:"count"`
	Files []AnalysisRecord `json:"files"`
}

type BatchResponse struct {
	BatchResult
	Dest   string `json:"dest"`
	Merged bool   `json:"merged"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
