package tui

import (
	"fmt"
	"strings"

	"github.com/piyawatc/censedit/internal/core/styles"
)

// maxShownProblems caps the validation errors listed in the modal; the
// remainder collapses into a count line.
const maxShownProblems = 20

// formatProblems caps a problem list for display.
func formatProblems(problems []string) []string {
	if len(problems) <= maxShownProblems {
		return problems
	}
	shown := make([]string, maxShownProblems, maxShownProblems+1)
	copy(shown, problems[:maxShownProblems])
	return append(shown, fmt.Sprintf("... และอีก %d รายการ", len(problems)-maxShownProblems))
}

type modalKind int

const (
	modalNone modalKind = iota
	modalMessage
	modalError
	modalConfirmLeave
)

// pendingAction is what a confirm-leave modal resumes once pending edits
// are resolved.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionSearch
	actionPage
	actionClear
	actionLogout
)

type modal struct {
	kind  modalKind
	title string
	lines []string

	// confirm-leave state
	action pendingAction
	page   int // target page for actionPage
	choice int // 0 = save, 1 = discard, 2 = cancel
}

func messageModal(title string, lines ...string) modal {
	return modal{kind: modalMessage, title: title, lines: lines}
}

func errorModal(title string, problems []string) modal {
	return modal{kind: modalError, title: title, lines: formatProblems(problems)}
}

func confirmLeaveModal(action pendingAction, page int) modal {
	return modal{
		kind:   modalConfirmLeave,
		title:  "มีข้อมูลที่ยังไม่ได้บันทึก",
		action: action,
		page:   page,
		choice: 0,
	}
}

var leaveChoices = []string{"บันทึก", "ละทิ้ง", "ยกเลิก"}

const (
	choiceSave = iota
	choiceDiscard
	choiceCancel
)

func (m *modal) cycleChoice(delta int) {
	n := len(leaveChoices)
	m.choice = ((m.choice+delta)%n + n) % n
}

func (m modal) view() string {
	var b strings.Builder

	switch m.kind {
	case modalMessage:
		b.WriteString(styles.Title.Render(m.title))
	case modalError:
		b.WriteString(styles.ErrorText.Render(m.title))
	case modalConfirmLeave:
		b.WriteString(styles.Title.Render(m.title))
	}
	b.WriteString("\n")

	for _, line := range m.lines {
		b.WriteString("\n")
		if m.kind == modalError {
			b.WriteString(styles.ErrorText.Render(line))
		} else {
			b.WriteString(line)
		}
	}

	if m.kind == modalConfirmLeave {
		b.WriteString("\n")
		for i, label := range leaveChoices {
			b.WriteString("\n")
			if i == m.choice {
				b.WriteString(styles.Cursor.Render("> " + label))
			} else {
				b.WriteString("  " + label)
			}
		}
		b.WriteString("\n\n")
		b.WriteString(styles.HelpText.Render("↑/↓ เลือก · enter ยืนยัน · esc ยกเลิก"))
	} else {
		b.WriteString("\n\n")
		b.WriteString(styles.HelpText.Render("enter/esc ปิด"))
	}

	return styles.ModalBorder.Render(b.String())
}
