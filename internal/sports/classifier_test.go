package sports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderClassifier_Classify(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    TableKind
	}{
		{"four cells", []string{"Date", "Event", "Location", "Place"}, TablePostseason},
		{"five cells with place result", []string{"Date", "Event", "Location", "Place / Result", "Notes"}, TablePostseason},
		{"place result with extra spacing", []string{"Date", "Event", "Location", "  Place  / Result ", "Notes"}, TablePostseason},
		{"five cells", []string{"Date", "Shorecrest", "Opponent", "Result", "Notes"}, TableResults},
		{"six cells", []string{"Date", "Time", "Opponent", "Location", "Type", "Notes"}, TableSchedule},
		{"three cells", []string{"Date", "Time", "Opponent"}, TableUnknown},
		{"no cells", nil, TableUnknown},
	}

	c := HeaderClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.headers))
		})
	}
}

func TestTableKind_String(t *testing.T) {
	assert.Equal(t, "postseason", TablePostseason.String())
	assert.Equal(t, "results", TableResults.String())
	assert.Equal(t, "schedule", TableSchedule.String())
	assert.Equal(t, "unknown", TableUnknown.String())
}
