package tui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatProblemsShort(t *testing.T) {
	problems := []string{"หนึ่ง", "สอง"}
	assert.Equal(t, problems, formatProblems(problems))
}

func TestFormatProblemsCapped(t *testing.T) {
	problems := make([]string, 25)
	for i := range problems {
		problems[i] = fmt.Sprintf("ปัญหา %d", i+1)
	}

	out := formatProblems(problems)
	require.Len(t, out, maxShownProblems+1)
	assert.Equal(t, "ปัญหา 1", out[0])
	assert.Equal(t, "ปัญหา 20", out[maxShownProblems-1])
	assert.Equal(t, "... และอีก 5 รายการ", out[maxShownProblems])
}

func TestConfirmLeaveModalDefaults(t *testing.T) {
	m := confirmLeaveModal(actionPage, 3)
	assert.Equal(t, modalConfirmLeave, m.kind)
	assert.Equal(t, actionPage, m.action)
	assert.Equal(t, 3, m.page)
	assert.Equal(t, choiceSave, m.choice)
}

func TestCycleChoiceWraps(t *testing.T) {
	m := confirmLeaveModal(actionLogout, 0)

	m.cycleChoice(-1)
	assert.Equal(t, choiceCancel, m.choice)

	m.cycleChoice(1)
	assert.Equal(t, choiceSave, m.choice)

	m.cycleChoice(2)
	assert.Equal(t, choiceCancel, m.choice)
}
