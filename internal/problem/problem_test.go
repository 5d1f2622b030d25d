package problem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "suppliers.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "supplier selection", p.Name)
	assert.Equal(t, []string{"price", "quality", "delivery", "service"}, p.CriterionNames())
	assert.Equal(t, []string{"acme", "globex", "initech"}, p.AlternativeNames())
	assert.Equal(t, []float64{0.3, 0.1, 0.4, 0.2}, p.Weights())
	assert.Equal(t, [][]float64{
		{15, 40, 25, 40},
		{20, 30, 20, 35},
		{30, 10, 30, 15},
	}, p.Matrix())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read problem")
}

func TestParseJSON(t *testing.T) {
	doc := `{"name":"json","criteria":[{"name":"a","weight":0.5},{"name":"b","weight":0.5}],` +
		`"alternatives":[{"name":"x","scores":[1,2]},{"name":"y","scores":[2,1]}]}`

	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "json", p.Name)
	assert.Len(t, p.Alternatives, 2)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("criteria: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse problem")
}

func TestValidate(t *testing.T) {
	base := func() *Problem {
		return &Problem{
			Criteria: []Criterion{{Name: "a", Weight: 0.5}, {Name: "b", Weight: 0.5}},
			Alternatives: []Alternative{
				{Name: "x", Scores: []float64{1, 2}},
				{Name: "y", Scores: []float64{2, 1}},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(p *Problem)
		want   error
	}{
		{"valid", func(p *Problem) {}, nil},
		{"no criteria", func(p *Problem) { p.Criteria = nil }, ErrNoCriteria},
		{"no alternatives", func(p *Problem) { p.Alternatives = nil }, ErrNoAlternatives},
		{"unnamed criterion", func(p *Problem) { p.Criteria[1].Name = "  " }, ErrUnnamed},
		{"unnamed alternative", func(p *Problem) { p.Alternatives[0].Name = "" }, ErrUnnamed},
		{"duplicate criterion", func(p *Problem) { p.Criteria[1].Name = "a" }, ErrDuplicateName},
		{"duplicate alternative", func(p *Problem) { p.Alternatives[1].Name = "x" }, ErrDuplicateName},
		{"short scores", func(p *Problem) { p.Alternatives[1].Scores = []float64{1} }, ErrScoreCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			err := p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMatrixIsACopy(t *testing.T) {
	p := &Problem{
		Criteria:     []Criterion{{Name: "a", Weight: 1}},
		Alternatives: []Alternative{{Name: "x", Scores: []float64{3}}},
	}
	m := p.Matrix()
	m[0][0] = 99
	assert.Equal(t, 3.0, p.Alternatives[0].Scores[0])
}
