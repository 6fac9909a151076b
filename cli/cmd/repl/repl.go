package repl

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
)

const (
	evalPrompt    = Prompt
	commandPrompt = "    : "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  tokens   Show the tokens of the last input
  env      List the builtins
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a form to read, evaluate, and print it
  Completions appear as you type
  Press Tab / Shift-Tab to cycle through candidates, Enter to accept
  Press Esc to toggle between eval and command modes
  Use Up/Down for history (mode switches automatically)
  Use Shift+Up/Shift+Down for history within the current mode only
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	commandPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("5")).
				Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

const defaultWidth = 80

// draft is the unsubmitted input of one mode.
type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model of the interactive REPL.
type model struct {
	ctx     context.Context
	session *Session
	history *History
	logger  log.Logger
	input   textinput.Model
	mode    Mode
	drafts  [2]draft

	historyIdx int

	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	selected     int    // index of the selected candidate, or -1
	tabbing      bool   // whether Tab is cycling candidates
	preTabText   string // input before cycling began
	preTabCursor int

	width    int
	quitting bool
}

// Run starts the interactive REPL on the terminal and blocks until the user
// quits or ctx is done. Submitted lines are recorded in history.
func Run(
	ctx context.Context,
	s *Session,
	history *History,
	logger log.Logger,
	opts ...tea.ProgramOption,
) error {
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "history not loaded", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("history", history.Len()),
		slog.Any("builtins", s.Env().Names()),
	)

	p := tea.NewProgram(
		newModel(ctx, s, history, logger),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...,
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

func newModel(
	ctx context.Context,
	s *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth - len(evalPrompt) - 2

	return model{
		ctx:        ctx,
		session:    s,
		history:    history,
		logger:     logger,
		input:      ti,
		mode:       ModeEval,
		historyIdx: history.Len(),
		selected:   -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)) +
				"/" + strconv.Itoa(m.history.Len()),
		))

	case strings.TrimSpace(m.input.Value()) == "":
		if m.mode == ModeEval {
			b.WriteString(hintStyle.Render("Type a form or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(commands, ", ") + " (press Esc to return)",
			))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.selected, m.width))
	}

	b.WriteByte('\n')

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabbing = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabbing && len(m.matches) > 0 {
			m.tabbing = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1, false), nil

	case tea.KeyDown:
		return m.browse(1, false), nil

	case tea.KeyShiftUp:
		return m.browse(-1, true), nil

	case tea.KeyShiftDown:
		return m.browse(1, true), nil

	case tea.KeyEsc:
		if m.tabbing {
			m.tabbing = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh(false)

			return m, nil
		}

		if m.mode == ModeEval {
			return m.switchMode(ModeCommand), nil
		}

		return m.switchMode(ModeEval), nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		if m.tabbing && msg.String() == " " {
			m.tabbing = false
		}
	} else {
		m.tabbing = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(msg.Type == tea.KeyRunes)

	return m, cmd
}

// cycle selects the next (step 1) or previous (step -1) candidate and
// writes it over the current word. A sole candidate is accepted at once.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabbing = false
		m.selected = -1
		m.matches = nil

		return m
	}

	if !m.tabbing {
		m.tabbing = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.selected = -1

		if step < 0 {
			m.selected = 0
		}
	}

	m.selected = (m.selected + step + len(m.matches)) % len(m.matches)
	m.replaceWord(m.matches[m.selected].Str)

	return m
}

// replaceWord replaces the current word with s and moves the cursor after
// it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	start, end := min(m.wordStart, len(input)), min(m.wordEnd, len(input))

	m.input.SetValue(input[:start] + s + input[end:])
	m.input.SetCursor(start + len(s))
	m.wordEnd = start + len(s)
}

// refresh recomputes the matches for the word at the cursor. With
// autoConfirm, a sole candidate equal to the typed word is accepted.
func (m *model) refresh(autoConfirm bool) {
	if m.tabbing {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.session.complete(
		m.input.Value(), m.input.Position(), m.mode,
	)
	m.selected = -1

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// browse moves through history by step. With inMode, entries of the other
// mode are skipped; otherwise the mode follows the entry.
func (m model) browse(step int, inMode bool) model {
	m.tabbing = false

	var (
		idx = m.historyIdx + step
		ok  = idx >= 0 && idx < m.history.Len()
	)

	if inMode {
		idx, ok = m.history.Find(m.historyIdx, step, m.mode)
	}

	if !ok {
		if step > 0 && m.historyIdx < m.history.Len() {
			m.historyIdx = m.history.Len()
			m.input.SetValue("")
			m.refresh(false)
		}

		return m
	}

	e, err := m.history.Entry(idx)
	if err != nil {
		return m
	}

	if e.Mode != m.mode {
		m = m.switchMode(e.Mode)
	}

	m.historyIdx = idx
	m.input.SetValue(e.Line)
	m.input.SetCursor(len(e.Line))
	m.refresh(false)

	return m
}

// switchMode saves the draft of the current mode and restores the draft of
// mode.
func (m model) switchMode(mode Mode) model {
	m.drafts[m.mode] = draft{text: m.input.Value(), cursor: m.input.Position()}
	m.mode = mode

	if mode == ModeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = commandPromptStyle.Render(commandPrompt)
	}

	m.input.SetValue(m.drafts[mode].text)
	m.input.SetCursor(m.drafts[mode].cursor)
	m.refresh(false)

	return m
}

// submit records the input in history and runs it in the current mode.
func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.drafts = [2]draft{}
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	m.refresh(false)

	if m.mode == ModeCommand {
		return m.command(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := m.session.Rep(m.ctx, input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(FormatError(err, input))))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(result)))
}

// command runs a command-mode input.
func (m model) command(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	echo := tea.Println(commandPromptStyle.Render(commandPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", fields[0]),
	)

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "t", "tokens":
		return m, tea.Sequence(echo, tea.Println(m.tokensView()))

	case "e", "env":
		return m, tea.Sequence(echo, tea.Println(m.envView()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"),
		))
	}
}

// tokensView lists the tokens of the last evaluated line.
func (m model) tokensView() string {
	tokens := lang.Tokenize(m.session.Last())
	if len(tokens) == 0 {
		return hintStyle.Render("  (no tokens)")
	}

	var b strings.Builder

	for _, t := range tokens {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render(t.Pos.String()))
		b.WriteByte(' ')
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// envView lists the builtins with their defining expressions.
func (m model) envView() string {
	env := m.session.Env()

	var b strings.Builder

	for _, name := range env.Names() {
		fn, _ := env.Lookup(name)

		b.WriteString("  ")
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(hintStyle.Render(fn.Source))
		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}
