package http

import "weightwise/internal/modkit/swaggerkit"

// Document adds the predict paths and schemas to the OpenAPI document
func Document(spec map[string]any) {
	num := map[string]any{"type": "number"}
	integer := map[string]any{"type": "integer", "minimum": 0}
	enum := func(v ...string) map[string]any { return map[string]any{"type": "string", "enum": v} }
	yesNo := enum("yes", "no")
	freq := enum("no", "Sometimes", "Frequently", "Always")

	swaggerkit.AddSchema(spec, "PredictInput", map[string]any{
		"type": "object",
		"required": []string{
			"Height", "Weight", "FCVC", "NCP", "CH2O", "FAF", "TUE",
			"family_history", "FAVC", "SMOKE", "SCC", "CAEC", "CALC", "Gender", "MTRANS",
		},
		"additionalProperties": false,
		"properties": map[string]any{
			"Height":         map[string]any{"type": "number", "exclusiveMinimum": true, "minimum": 0, "example": 1.70},
			"Weight":         map[string]any{"type": "number", "exclusiveMinimum": true, "minimum": 0, "example": 70},
			"FCVC":           integer,
			"NCP":            integer,
			"CH2O":           integer,
			"FAF":            integer,
			"TUE":            integer,
			"family_history": yesNo,
			"FAVC":           yesNo,
			"SMOKE":          yesNo,
			"SCC":            yesNo,
			"CAEC":           freq,
			"CALC":           freq,
			"Gender":         enum("Female", "Male"),
			"MTRANS":         enum("Public_Transportation", "Walking", "Automobile", "Motorbike", "Bike"),
		},
	})
	swaggerkit.AddSchema(spec, "PredictionResult", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prediction": map[string]any{"type": "integer", "example": 1},
			"calculated_features": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"HealthyMealRatio": num,
					"ActivityBalance":  num,
					"TransportType":    map[string]any{"type": "string"},
					"LifestyleScore":   num,
				},
			},
		},
	})
	swaggerkit.AddSchema(spec, "PredictResponse", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "example": "success"},
			"data":   swaggerkit.Ref("PredictionResult"),
		},
	})

	swaggerkit.AddOperation(spec, "/", "get", map[string]any{
		"summary": "Readiness in plain text",
		"tags":    []string{"Predict"},
		"responses": map[string]any{
			"200": map[string]any{
				"description": "pipeline loaded",
				"content":     map[string]any{"text/plain": map[string]any{"schema": map[string]any{"type": "string", "example": ReadyText}}},
			},
		},
	})
	swaggerkit.AddOperation(spec, "/predict", "post", map[string]any{
		"summary":     "Classify one record",
		"tags":        []string{"Predict"},
		"requestBody": map[string]any{"required": true, "content": map[string]any{"application/json": map[string]any{"schema": swaggerkit.Ref("PredictInput")}}},
		"responses": map[string]any{
			"200": swaggerkit.JSONBody("prediction and explanatory features", swaggerkit.Ref("PredictResponse")),
			"400": swaggerkit.JSONBody("invalid record", swaggerkit.Ref("ErrorResponse")),
		},
	})
}
