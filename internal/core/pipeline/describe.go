package pipeline

// StageInfo is one row of a pipeline description
type StageInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
}

// EstimatorInfo describes the terminal model
type EstimatorInfo struct {
	Kind     string         `json:"kind"`
	Features []string       `json:"features"`
	Classes  map[int]string `json:"classes,omitempty"`
}

// Description is the operator view of a loaded pipeline
type Description struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	TrainedAt string        `json:"trained_at,omitempty"`
	Source    string        `json:"source,omitempty"`
	SHA256    string        `json:"sha256,omitempty"`
	Inputs    []string      `json:"inputs"`
	Outputs   []string      `json:"outputs"`
	Stages    []StageInfo   `json:"stages"`
	Estimator EstimatorInfo `json:"estimator"`
}

// Describe summarizes the pipeline without exposing frozen parameters
func (p *Pipeline) Describe() Description {
	d := Description{
		ID:        p.ID(),
		Name:      p.meta.Name,
		Version:   p.meta.Version,
		TrainedAt: p.meta.TrainedAt,
		Source:    p.meta.Source,
		SHA256:    p.meta.SHA256,
		Inputs:    p.input.Names(),
		Outputs:   p.prefix.Names(),
		Stages:    make([]StageInfo, len(p.stages)),
		Estimator: EstimatorInfo{Kind: p.est.Kind(), Features: p.est.Features()},
	}
	for i, s := range p.stages {
		d.Stages[i] = StageInfo{Index: i, Name: s.Name(), Kind: s.Kind()}
	}
	if p.classes != nil {
		d.Estimator.Classes = p.classes.Table()
	}
	return d
}
