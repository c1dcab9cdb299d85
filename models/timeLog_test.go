package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTaskType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"page_testing", TaskPageTesting},
		{"project_phase", TaskProjectPhase},
		{"generic_task", TaskGenericTask},
		{"regression", TaskRegression},
		{"other", TaskOther},
		// legacy aliases
		{"regression_testing", TaskRegression},
		{"page_qa", TaskPageTesting},
		// anything unknown collapses to other
		{"", TaskOther},
		{"bench", TaskOther},
		{"PAGE_TESTING", TaskOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeTaskType(tt.input), "input %q", tt.input)
	}
}
