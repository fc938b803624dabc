package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmlabs-hris/hris-agent-go/internal/config"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/notify"
	leaveService "github.com/cmlabs-hris/hris-agent-go/internal/service/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/service/session"
	"github.com/cmlabs-hris/hris-agent-go/internal/service/timesheet"
	"github.com/cmlabs-hris/hris-agent-go/internal/store"
)

type viewMode int

const (
	modeTimer viewMode = iota
	modeLeaveForm
	modeTimesheet
)

// Leave form focus order.
const (
	focusType = iota
	focusStart
	focusEnd
	focusReason
	focusCount
)

type (
	tickMsg      time.Time
	noticeMsg    notify.Notification
	actionMsg    struct{ err error }
	leaveMsg     struct{ err error }
	timesheetMsg struct {
		summary timesheet.WeekSummary
		err     error
	}
)

type uiModel struct {
	timer      *session.Timer
	leaves     *leaveService.Service
	timesheets *timesheet.Service
	store      *store.Store
	notices    *notify.Chan
	keys       keyMap

	mode   viewMode
	width  int
	height int

	statusMsg    string
	statusLevel  notify.Level
	statusExpiry time.Time

	// Leave form state; validation recomputes on every input change.
	focus       int
	leaveType   leave.Type
	startInput  textinput.Model
	endInput    textinput.Model
	reasonInput textinput.Model
	validation  leaveService.ValidationResult
	submitting  bool

	summary *timesheet.WeekSummary
	userID  string
}

func initialModel(
	timer *session.Timer,
	leaves *leaveService.Service,
	timesheets *timesheet.Service,
	st *store.Store,
	notices *notify.Chan,
	keymap *config.Keymap,
	userID string,
) uiModel {
	start := textinput.New()
	start.Placeholder = "YYYY-MM-DD"
	start.CharLimit = 10

	end := textinput.New()
	end.Placeholder = "YYYY-MM-DD"
	end.CharLimit = 10

	reason := textinput.New()
	reason.Placeholder = "Reason (optional)"
	reason.CharLimit = 200

	return uiModel{
		timer:       timer,
		leaves:      leaves,
		timesheets:  timesheets,
		store:       st,
		notices:     notices,
		keys:        newKeyMap(keymap),
		mode:        modeTimer,
		leaveType:   leave.TypePTO,
		startInput:  start,
		endInput:    end,
		reasonInput: reason,
		userID:      userID,
	}
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForNotice())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m uiModel) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-m.notices.C)
	}
}

func (m *uiModel) setStatus(level notify.Level, msg string) {
	m.statusMsg = msg
	m.statusLevel = level
	m.statusExpiry = time.Now().Add(4 * time.Second)
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.statusExpiry.IsZero() && time.Now().After(m.statusExpiry) {
			m.statusMsg = ""
		}
		return m, tick()

	case noticeMsg:
		m.setStatus(msg.Level, msg.Message)
		return m, m.waitForNotice()

	case actionMsg:
		// Outcome text arrives through the notifier; nothing else to do.
		return m, nil

	case leaveMsg:
		m.submitting = false
		if msg.err == nil {
			m.resetLeaveForm()
			m.mode = modeTimer
		}
		return m, nil

	case timesheetMsg:
		if msg.err != nil {
			m.setStatus(notify.LevelError, "Could not load timesheet")
			return m, nil
		}
		m.summary = &msg.summary
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m uiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeLeaveForm {
		return m.handleLeaveFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.CheckIn):
		timer := m.timer
		return m, func() tea.Msg {
			return actionMsg{err: timer.CheckIn(context.Background())}
		}

	case key.Matches(msg, m.keys.CheckOut):
		timer := m.timer
		return m, func() tea.Msg {
			return actionMsg{err: timer.CheckOut(context.Background())}
		}

	case key.Matches(msg, m.keys.LeaveForm):
		m.mode = modeLeaveForm
		m.focus = focusType
		m.revalidate()
		return m, nil

	case key.Matches(msg, m.keys.Timesheet):
		m.mode = modeTimesheet
		timesheets, userID := m.timesheets, m.userID
		return m, func() tea.Msg {
			summary, err := timesheets.WeekOf(context.Background(), userID, time.Now())
			return timesheetMsg{summary: summary, err: err}
		}

	case key.Matches(msg, m.keys.Back):
		m.mode = modeTimer
		return m, nil
	}

	return m, nil
}

func (m uiModel) handleLeaveFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeTimer
		m.blurAll()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.focus = (m.focus + 1) % focusCount
		m.syncFocus()
		return m, nil

	case key.Matches(msg, m.keys.CycleType):
		if m.leaveType == leave.TypePTO {
			m.leaveType = leave.TypeSick
		} else {
			m.leaveType = leave.TypePTO
		}
		m.revalidate()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if !m.canSubmit() {
			return m, nil
		}
		m.submitting = true
		leaves, draft := m.leaves, m.draft()
		return m, func() tea.Msg {
			_, err := leaves.Submit(context.Background(), draft)
			return leaveMsg{err: err}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusStart:
		m.startInput, cmd = m.startInput.Update(msg)
	case focusEnd:
		m.endInput, cmd = m.endInput.Update(msg)
	case focusReason:
		m.reasonInput, cmd = m.reasonInput.Update(msg)
	}
	m.revalidate()
	return m, cmd
}

func (m *uiModel) syncFocus() {
	m.blurAll()
	switch m.focus {
	case focusStart:
		m.startInput.Focus()
	case focusEnd:
		m.endInput.Focus()
	case focusReason:
		m.reasonInput.Focus()
	}
}

func (m *uiModel) blurAll() {
	m.startInput.Blur()
	m.endInput.Blur()
	m.reasonInput.Blur()
}

func (m uiModel) draft() leave.Draft {
	return leave.Draft{
		LeaveType: m.leaveType,
		StartDate: m.startInput.Value(),
		EndDate:   m.endInput.Value(),
		Reason:    m.reasonInput.Value(),
	}
}

// revalidate recomputes the full validation whenever any of the three
// validation inputs change.
func (m *uiModel) revalidate() {
	m.validation = leaveService.Validate(m.draft(), m.store.Balances())
}

// canSubmit gates submission: complete triple, no validation error, and no
// request already in flight.
func (m uiModel) canSubmit() bool {
	return m.draft().Complete() && m.validation.OK() && !m.submitting && !m.leaves.InFlight()
}

func (m *uiModel) resetLeaveForm() {
	m.startInput.SetValue("")
	m.endInput.SetValue("")
	m.reasonInput.SetValue("")
	m.focus = focusType
	m.validation = leaveService.ValidationResult{}
	m.blurAll()
}

// Run starts the terminal UI and blocks until it exits.
func Run(
	timer *session.Timer,
	leaves *leaveService.Service,
	timesheets *timesheet.Service,
	st *store.Store,
	notices *notify.Chan,
	keymap *config.Keymap,
	userID string,
) error {
	p := tea.NewProgram(
		initialModel(timer, leaves, timesheets, st, notices, keymap, userID),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
