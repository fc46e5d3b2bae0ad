// Package domain holds the predict request and response contracts
package domain

import (
	"weightwise/internal/core/features"
	pstrings "weightwise/internal/platform/strings"
)

// PredictInput is one raw record as posted by a client
// every field is a pointer so a missing or null value fails required instead of reading as zero
type PredictInput struct {
	Height *float64 `json:"Height" validate:"required,gt=0" example:"1.70"`
	Weight *float64 `json:"Weight" validate:"required,gt=0" example:"70"`

	FCVC *Count `json:"FCVC" validate:"required,min=0" example:"2"`
	NCP  *Count `json:"NCP"  validate:"required,min=0" example:"3"`
	CH2O *Count `json:"CH2O" validate:"required,min=0" example:"2"`
	FAF  *Count `json:"FAF"  validate:"required,min=0" example:"1"`
	TUE  *Count `json:"TUE"  validate:"required,min=0" example:"1"`

	FamilyHistory *string `json:"family_history" validate:"required,oneof=yes no" example:"yes"`
	FAVC          *string `json:"FAVC"           validate:"required,oneof=yes no" example:"no"`
	SMOKE         *string `json:"SMOKE"          validate:"required,oneof=yes no" example:"no"`
	SCC           *string `json:"SCC"            validate:"required,oneof=yes no" example:"no"`
	CAEC          *string `json:"CAEC"           validate:"required,oneof=no Sometimes Frequently Always" example:"Sometimes"`
	CALC          *string `json:"CALC"           validate:"required,oneof=no Sometimes Frequently Always" example:"no"`
	Gender        *string `json:"Gender"         validate:"required,oneof=Female Male" example:"Male"`
	MTRANS        *string `json:"MTRANS"         validate:"required,oneof=Public_Transportation Walking Automobile Motorbike Bike" example:"Public_Transportation"` //nolint:lll
}

// Normalize trims and NFKC-normalizes the categorical strings before validation
func (in *PredictInput) Normalize() {
	for _, s := range []*string{in.FamilyHistory, in.FAVC, in.SMOKE, in.SCC, in.CAEC, in.CALC, in.Gender, in.MTRANS} {
		pstrings.CanonPtr(s)
	}
}

// Record freezes a validated input; call only after validation succeeded
func (in PredictInput) Record() RawRecord {
	return RawRecord{
		Height:        *in.Height,
		Weight:        *in.Weight,
		FCVC:          int(*in.FCVC),
		NCP:           int(*in.NCP),
		CH2O:          int(*in.CH2O),
		FAF:           int(*in.FAF),
		TUE:           int(*in.TUE),
		FamilyHistory: *in.FamilyHistory,
		FAVC:          *in.FAVC,
		SMOKE:         *in.SMOKE,
		SCC:           *in.SCC,
		CAEC:          *in.CAEC,
		CALC:          *in.CALC,
		Gender:        *in.Gender,
		MTRANS:        *in.MTRANS,
	}
}

// RawRecord is a validated record; it is a value and never changes after binding
type RawRecord struct {
	Height float64
	Weight float64

	FCVC int
	NCP  int
	CH2O int
	FAF  int
	TUE  int

	FamilyHistory string
	FAVC          string
	SMOKE         string
	SCC           string
	CAEC          string
	CALC          string
	Gender        string
	MTRANS        string
}

// Seed builds a fresh feature record keyed by the artifact input names
func (r RawRecord) Seed() features.Record {
	rec := features.NewRecord(15)
	rec.SetNumber("Height", r.Height)
	rec.SetNumber("Weight", r.Weight)
	rec.SetNumber("FCVC", float64(r.FCVC))
	rec.SetNumber("NCP", float64(r.NCP))
	rec.SetNumber("CH2O", float64(r.CH2O))
	rec.SetNumber("FAF", float64(r.FAF))
	rec.SetNumber("TUE", float64(r.TUE))
	rec.SetString("family_history", r.FamilyHistory)
	rec.SetString("FAVC", r.FAVC)
	rec.SetString("SMOKE", r.SMOKE)
	rec.SetString("SCC", r.SCC)
	rec.SetString("CAEC", r.CAEC)
	rec.SetString("CALC", r.CALC)
	rec.SetString("Gender", r.Gender)
	rec.SetString("MTRANS", r.MTRANS)
	return rec
}
