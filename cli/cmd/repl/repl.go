package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/log"
)

// reloadMsg carries a freshly composed environment.
type reloadMsg struct {
	env lang.Environment
	err error
}

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"

	defaultWidth       = 80
	defaultPreviewRows = 8
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this message
  names    List the names markers can refer to
  reload   Rebuild the environment from its sources
  clear    Clear screen
  quit     Exit

Usage:
  Type an expression; its rows are previewed as you type
  Press Enter to print every row
  Inside "...{ press Tab / Shift-Tab to cycle through names
  Press Esc to toggle between eval and command modes
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// inputMode is the interpretation of the input line.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func formatCommand(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// Config configures [Run].
type Config struct {
	// Environment builds the environment marker names resolve against. It
	// is called at start, by the reload command, and after each change to
	// Watch.
	Environment func() (lang.Environment, error)

	// Watch is a file whose changes trigger a reload. Empty disables
	// watching.
	Watch string

	// HistoryPath is the history file. Empty keeps history in memory.
	HistoryPath string

	// PreviewRows bounds the rows shown while typing.
	PreviewRows int

	Options []lang.Option
	Logger  log.Logger

	// Input and Output replace the terminal when set.
	Input  io.Reader
	Output io.Writer
}

// Run starts the interactive preview and blocks until the user quits or
// ctx is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Environment == nil {
		return ErrNoEnv
	}

	env, err := cfg.Environment()
	if err != nil {
		return err
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("watch", cfg.Watch),
		slog.Int("history", history.Len()))

	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		popts = append(popts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		popts = append(popts, tea.WithOutput(cfg.Output))
	}

	p := tea.NewProgram(newModel(ctx, cfg, env, history), popts...)

	if cfg.Watch != "" {
		w, err := watch(ctx, cfg.Watch, defaultDebounce, cfg.Logger, func() {
			env, err := cfg.Environment()
			p.Send(reloadMsg{env: env, err: err})
		})
		if err != nil {
			return err
		}

		defer w.Close()
	}

	_, err = p.Run()

	return err
}

// model is the Bubble Tea model of the REPL.
type model struct {
	ctxFunc      func() context.Context
	compose      func() (lang.Environment, error)
	input        textinput.Model
	env          lang.Environment
	names        []string // completion candidates from env
	opts         []lang.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	preview      preview
	previewRows  int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

func newModel(ctx context.Context, cfg Config, env lang.Environment, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	rows := cfg.PreviewRows
	if rows <= 0 {
		rows = defaultPreviewRows
	}

	return model{
		ctxFunc:     func() context.Context { return ctx },
		compose:     cfg.Environment,
		input:       ti,
		env:         env,
		names:       namesOf(env),
		opts:        cfg.Options,
		logger:      cfg.Logger,
		history:     history,
		historyIdx:  history.Len(),
		previewRows: rows,
		suggIdx:     -1,
		width:       defaultWidth,
		mode:        modeEval,
	}
}

// namesOf returns the names env can list, or nil.
func namesOf(env lang.Environment) []string {
	if nl, ok := env.(lang.NameLister); ok {
		return nl.Names()
	}

	return nil
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
		m.input.Width = max(1, msg.Width-len(evalPrompt)-2)

		return m, nil

	case reloadMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("reload failed: " + msg.err.Error()))
		}

		m.env = msg.env
		m.names = namesOf(msg.env)
		m.preview = preview{}
		refresh(&m, false)

		m.logger.TraceContext(m.ctxFunc(), "repl reload",
			slog.Int("names", len(m.names)))

		return m, tea.Println(hintStyle.Render("environment reloaded"))
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
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type an expression or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	if m.mode == modeEval && input != "" {
		b.WriteString(m.preview.render(m.previewRows))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refresh(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refresh(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.recall(m.historyIdx-1, -1, false)

	case tea.KeyDown:
		return m.recall(m.historyIdx+1, 1, false)

	case tea.KeyShiftUp:
		return m.recall(m.historyIdx-1, -1, true)

	case tea.KeyShiftDown:
		return m.recall(m.historyIdx+1, 1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refresh(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode)

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refresh(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refresh(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, completing at once when only one
// candidate remains.
func (m model) cycle(step int) (model, tea.Cmd) {
	switch len(m.matches) {
	case 0:
		return m, nil

	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the word under completion with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
	m.updatePreview()
}

// refresh recomputes completions and the preview. With autoConfirm, a
// word that already equals its only candidate is accepted.
func refresh(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	m.updatePreview()

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// updatePreview evaluates the input when it differs from the last preview.
func (m *model) updatePreview() {
	src := m.input.Value()

	switch {
	case m.mode != modeEval || src == "":
		m.preview = preview{}
	case src != m.preview.src:
		m.preview = evaluate(src, m.env, m.previewRows, m.opts...)
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	if strings.TrimSpace(raw) == "" {
		return m, nil
	}

	mode := m.mode

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil
	m.preview = preview{}

	if err := m.history.Add(raw, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(mode, raw))

	if mode == modeCtrl {
		return m.executeCommand(strings.TrimSpace(raw), echo)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", raw))

	return m, tea.Sequence(echo, tea.Println(m.expand(raw)))
}

// expand renders every row of src, one quoted row per line.
func (m model) expand(src string) string {
	ast, err := lang.Parse([]byte(src), m.opts...)
	if err != nil {
		return errorStyle.Render(strings.TrimRight(lang.FormatError(err, []byte(src)), "\n"))
	}

	rows, err := ast.Strings(m.env)
	if err != nil {
		return errorStyle.Render(strings.TrimRight(lang.FormatError(err, []byte(src)), "\n"))
	}

	if len(rows) == 0 {
		return hintStyle.Render("(no rows)")
	}

	quoted := make([]string, len(rows))
	for i, row := range rows {
		quoted[i] = resultStyle.Render(strconv.Quote(row))
	}

	return strings.Join(quoted, "\n")
}

func (m model) executeCommand(input string, echo tea.Cmd) (model, tea.Cmd) {
	cmd, _, _ := strings.Cut(input, " ")

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", cmd))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "n", "names":
		list := hintStyle.Render("(no names)")
		if len(m.names) > 0 {
			list = "  " + strings.Join(m.names, "\n  ")
		}

		return m, tea.Sequence(echo, tea.Println(list))

	case "r", "reload":
		compose := m.compose

		return m, tea.Sequence(echo, func() tea.Msg {
			env, err := compose()

			return reloadMsg{env: env, err: err}
		})

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("unknown command: "+cmd+" (try 'help')")))
	}
}

// recall shows history entry i. When sameMode is set, entries of the other
// mode are skipped in direction dir. Moving past the newest entry clears
// the input.
func (m model) recall(i, dir int, sameMode bool) (model, tea.Cmd) {
	for ; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			return m, nil
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refresh(&m, false)

		return m, nil
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refresh(&m, false)
	}

	return m, nil
}

// switchToMode changes the input mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refresh(&m, false)

	return m, nil
}
