package service

// PredictRequest is the JSON body for a text prediction
type PredictRequest struct {
	ResumeText string `json:"resume_text"`
}

// Prediction is one ranked category with its confidence in percent
type Prediction struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// PredictResponse is the body returned by POST /predict
type PredictResponse struct {
	Success           bool         `json:"success"`
	PredictedCategory string       `json:"predicted_category,omitempty"`
	Confidence        float64      `json:"confidence,omitempty"`
	TopPredictions    []Prediction `json:"top_predictions,omitempty"`
	Error             string       `json:"error,omitempty"`
}

// HealthResponse is the body returned by GET /health
type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// CategoriesResponse is the body returned by GET /categories
type CategoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories,omitempty"`
	Error      string   `json:"error,omitempty"`
}
