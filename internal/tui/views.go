package tui

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-agent-go/internal/service/session"
)

func (m uiModel) View() string {
	var b strings.Builder

	name := ""
	if u, ok := m.store.User(); ok {
		name = u.Name
	}
	b.WriteString(titleStyle.Render("HRIS Agent"))
	if name != "" {
		b.WriteString(helpStyle.Render("  —  " + name))
	}
	b.WriteString("\n\n")

	switch m.mode {
	case modeLeaveForm:
		b.WriteString(m.leaveFormView())
	case modeTimesheet:
		b.WriteString(m.timesheetView())
	default:
		b.WriteString(m.timerView())
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		switch m.statusLevel {
		case notify.LevelError:
			b.WriteString(errorStyle.Render(m.statusMsg))
		case notify.LevelWarning:
			b.WriteString(warningStyle.Render(m.statusMsg))
		default:
			b.WriteString(successStyle.Render(m.statusMsg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m uiModel) timerView() string {
	var b strings.Builder

	elapsed := session.FormatElapsed(m.timer.Elapsed())
	if m.timer.State() == session.StateRunning {
		b.WriteString(labelStyle.Render("Checked in"))
		b.WriteString("\n")
		b.WriteString(timerStyle.Render(elapsed))
	} else {
		b.WriteString(labelStyle.Render("Not checked in"))
		b.WriteString("\n")
		b.WriteString(idleTimerStyle.Render(elapsed))
	}
	b.WriteString("\n\n")

	balances := m.store.Balances()
	b.WriteString(labelStyle.Render("Leave balances"))
	b.WriteString(fmt.Sprintf("  PTO: %d  Sick: %d\n",
		balances.Days(leave.TypePTO), balances.Days(leave.TypeSick)))

	return b.String()
}

func (m uiModel) leaveFormView() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("New leave request"))
	b.WriteString("\n\n")

	typeMarker := "  "
	if m.focus == focusType {
		typeMarker = "> "
	}
	b.WriteString(fmt.Sprintf("%sType:   %s\n", typeMarker, m.leaveType))
	b.WriteString(fmt.Sprintf("  Start:  %s\n", m.startInput.View()))
	b.WriteString(fmt.Sprintf("  End:    %s\n", m.endInput.View()))
	b.WriteString(fmt.Sprintf("  Reason: %s\n", m.reasonInput.View()))
	b.WriteString("\n")

	if m.validation.DaysRequested > 0 {
		b.WriteString(fmt.Sprintf("  Days requested: %d\n", m.validation.DaysRequested))
	}
	if !m.validation.OK() {
		b.WriteString("  " + errorStyle.Render(m.validation.ErrorMessage) + "\n")
	}

	switch {
	case m.submitting:
		b.WriteString(helpStyle.Render("  submitting..."))
	case m.canSubmit():
		b.WriteString(successStyle.Render("  ready to submit"))
	default:
		b.WriteString(helpStyle.Render("  submit disabled"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m uiModel) timesheetView() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("This week"))
	b.WriteString("\n\n")

	if m.summary == nil {
		b.WriteString(helpStyle.Render("  loading...\n"))
		return b.String()
	}

	for _, day := range m.summary.Days {
		hours := float64(day.WorkMinutes) / 60.0
		b.WriteString(fmt.Sprintf("  %s  %5.1fh\n", day.Date.Format("Mon 02 Jan"), hours))
	}
	b.WriteString(fmt.Sprintf("\n  Total: %.1fh\n", float64(m.summary.TotalMinutes)/60.0))

	return b.String()
}

func (m uiModel) helpView() string {
	if m.mode == modeLeaveForm {
		return helpStyle.Render(fmt.Sprintf("%s next field • %s leave type • %s submit • %s back",
			m.keys.NextField.Help().Key,
			m.keys.CycleType.Help().Key,
			m.keys.Submit.Help().Key,
			m.keys.Back.Help().Key))
	}
	return helpStyle.Render(fmt.Sprintf("%s check in • %s check out • %s leave • %s timesheet • %s quit",
		m.keys.CheckIn.Help().Key,
		m.keys.CheckOut.Help().Key,
		m.keys.LeaveForm.Help().Key,
		m.keys.Timesheet.Help().Key,
		m.keys.Quit.Help().Key))
}
