package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by a Prompter when the user closes a dialog with
// Cancel or Esc. It means "no selection", not failure.
var ErrCancelled = errors.New("cancelled")

// Prompter shows modal dialogs. Every method blocks until the dialog closes.
type Prompter interface {
	Button(title, msg string, choices []string) (string, error)
	Choice(title, msg string, choices []string) (string, error)
	Enter(title, msg string) (string, error)
	Integer(title, msg string, lo, hi int) (int, error)
	MultiEnter(title, msg string, fields []string) ([]string, error)
	Text(title, msg, text string) error
	Message(title, msg string) error
}

type dialogKind int

const (
	kindButton dialogKind = iota
	kindChoice
	kindEnter
	kindInteger
	kindMulti
	kindText
	kindMessage
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	// rows used by title, message, footer and padding around a text box
	textChromeHeight = 8
)

type dialog struct {
	kind  dialogKind
	title string
	msg   string

	choices []string
	cursor  int

	labels []string
	inputs []textinput.Model
	focus  int
	lo, hi int
	number int

	viewport viewport.Model

	errMsg    string
	width     int
	height    int
	cancelled bool
}

func newDialog(kind dialogKind, title, msg string) dialog {
	return dialog{kind: kind, title: title, msg: msg, width: defaultWidth, height: defaultHeight}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func newButtonDialog(title, msg string, choices []string) dialog {
	d := newDialog(kindButton, title, msg)
	d.choices = choices
	return d
}

func newChoiceDialog(title, msg string, choices []string) dialog {
	d := newDialog(kindChoice, title, msg)
	d.choices = choices
	return d
}

func newEnterDialog(title, msg string) dialog {
	d := newDialog(kindEnter, title, msg)
	d.inputs = []textinput.Model{newInput("")}
	d.inputs[0].Focus()
	return d
}

func newIntegerDialog(title, msg string, lo, hi int) dialog {
	d := newDialog(kindInteger, title, msg)
	d.lo, d.hi = lo, hi
	d.inputs = []textinput.Model{newInput(fmt.Sprintf("%d - %d", lo, hi))}
	d.inputs[0].CharLimit = 12
	d.inputs[0].Focus()
	return d
}

func newMultiDialog(title, msg string, fields []string) dialog {
	d := newDialog(kindMulti, title, msg)
	d.labels = fields
	for _, f := range fields {
		d.inputs = append(d.inputs, newInput(f))
	}
	if len(d.inputs) > 0 {
		d.inputs[0].Focus()
	}
	return d
}

func newTextDialog(title, msg, text string) dialog {
	d := newDialog(kindText, title, msg)
	d.viewport = viewport.New(defaultWidth-4, defaultHeight-textChromeHeight)
	d.viewport.SetContent(text)
	return d
}

func newMessageDialog(title, msg string) dialog {
	return newDialog(kindMessage, title, msg)
}

func (d dialog) Init() tea.Cmd {
	if len(d.inputs) > 0 {
		return textinput.Blink
	}
	return nil
}

func (d dialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		if d.kind == kindText {
			d.viewport.Width = max(msg.Width-4, 10)
			d.viewport.Height = max(msg.Height-textChromeHeight, 3)
		}
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			d.cancelled = true
			return d, tea.Quit
		}

		switch d.kind {
		case kindButton, kindChoice:
			return d.updateList(msg)
		case kindEnter, kindInteger, kindMulti:
			return d.updateInputs(msg)
		case kindText:
			switch msg.String() {
			case "enter", "q":
				return d, tea.Quit
			}
			var cmd tea.Cmd
			d.viewport, cmd = d.viewport.Update(msg)
			return d, cmd
		case kindMessage:
			switch msg.String() {
			case "enter", "q", " ":
				return d, tea.Quit
			}
		}
	}
	return d, nil
}

func (d dialog) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev, next := "up", "down"
	if d.kind == kindButton {
		prev, next = "left", "right"
	}

	switch msg.String() {
	case prev, "k", "shift+tab":
		if d.cursor > 0 {
			d.cursor--
		}
	case next, "j", "tab":
		if d.cursor < len(d.choices)-1 {
			d.cursor++
		}
	case "home":
		d.cursor = 0
	case "end":
		d.cursor = len(d.choices) - 1
	case "enter":
		if len(d.choices) == 0 {
			d.cancelled = true
		}
		return d, tea.Quit
	}
	return d, nil
}

func (d dialog) updateInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if d.kind == kindMulti && d.focus < len(d.inputs)-1 {
			return d.moveFocus(1), nil
		}
		if d.kind == kindInteger {
			n, err := strconv.Atoi(strings.TrimSpace(d.inputs[0].Value()))
			if err != nil || n < d.lo || n > d.hi {
				d.errMsg = fmt.Sprintf("Please enter a whole number between %d and %d.", d.lo, d.hi)
				return d, nil
			}
			d.number = n
		}
		return d, tea.Quit
	case "tab", "down":
		if d.kind == kindMulti {
			return d.moveFocus(1), nil
		}
	case "shift+tab", "up":
		if d.kind == kindMulti {
			return d.moveFocus(-1), nil
		}
	}

	d.errMsg = ""
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return d, cmd
}

func (d dialog) moveFocus(delta int) dialog {
	next := d.focus + delta
	if next < 0 || next >= len(d.inputs) {
		return d
	}
	d.inputs[d.focus].Blur()
	d.focus = next
	d.inputs[d.focus].Focus()
	return d
}

// selected returns the highlighted choice of a button or choice dialog.
func (d dialog) selected() string {
	if d.cursor < 0 || d.cursor >= len(d.choices) {
		return ""
	}
	return d.choices[d.cursor]
}

func (d dialog) values() []string {
	vals := make([]string, len(d.inputs))
	for i, in := range d.inputs {
		vals[i] = in.Value()
	}
	return vals
}

func (d dialog) View() string {
	var b strings.Builder

	if strings.HasSuffix(d.title, "Error") {
		b.WriteString(errorTitleStyle.Render(d.title))
	} else {
		b.WriteString(titleStyle.Render(d.title))
	}
	b.WriteString("\n\n")
	if d.msg != "" {
		b.WriteString(textStyle.Render(d.msg))
		b.WriteString("\n\n")
	}

	switch d.kind {
	case kindButton:
		buttons := make([]string, len(d.choices))
		for i, c := range d.choices {
			style := buttonStyle
			if i == d.cursor {
				style = selectedStyle.Padding(0, 1)
			}
			buttons[i] = style.Render(c)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
		b.WriteString("\n")

	case kindChoice:
		first, last := visibleWindow(d.cursor, len(d.choices), d.height-textChromeHeight)
		for i := first; i < last; i++ {
			line := generateLinePointer(i == d.cursor, 2) + d.choices[i]
			if i == d.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}

	case kindEnter, kindInteger:
		b.WriteString(d.inputs[0].View())
		b.WriteString("\n")

	case kindMulti:
		labelWidth := 0
		for _, l := range d.labels {
			labelWidth = max(labelWidth, lipgloss.Width(l))
		}
		for i, in := range d.inputs {
			label := lipgloss.NewStyle().Width(labelWidth + 2).Render(d.labels[i] + ":")
			if i == d.focus {
				label = subtitleStyle.Render(label)
			}
			b.WriteString(label + in.View() + "\n")
		}

	case kindText:
		b.WriteString(boxStyle.Render(d.viewport.View()))
		b.WriteString("\n")
	}

	if d.errMsg != "" {
		b.WriteString("\n" + textRedStyle.Render(d.errMsg) + "\n")
	}

	b.WriteString(footerStyle.Render("\n" + d.footer()))
	return b.String()
}

func (d dialog) footer() string {
	switch d.kind {
	case kindButton:
		return "←/→ to choose • Enter to select • Esc to cancel"
	case kindChoice:
		return "↑/↓ to navigate • Enter to select • Esc to cancel"
	case kindMulti:
		return "Tab/↑/↓ to move between fields • Enter on the last field to submit • Esc to cancel"
	case kindText:
		return "↑/↓/PgUp/PgDn to scroll • Enter or q to close"
	case kindMessage:
		return "Enter to continue"
	default:
		return "Enter to submit • Esc to cancel"
	}
}

// visibleWindow returns the slice bounds of a list of n rows scrolled so
// that cursor stays visible within rows lines.
func visibleWindow(cursor, n, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	first := cursor - rows/2
	first = max(0, min(first, n-rows))
	return first, first + rows
}

// Dialogs is the terminal Prompter; each call runs a short-lived bubbletea program.
type Dialogs struct {
	in        io.Reader
	out       io.Writer
	altScreen bool
}

// NewDialogs returns a Prompter reading keys from in and drawing on out.
func NewDialogs(in io.Reader, out io.Writer, altScreen bool) *Dialogs {
	return &Dialogs{in: in, out: out, altScreen: altScreen}
}

func (p *Dialogs) run(d dialog) (dialog, error) {
	opts := []tea.ProgramOption{tea.WithInput(p.in), tea.WithOutput(p.out)}
	if p.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(d, opts...).Run()
	if err != nil {
		return d, fmt.Errorf("dialog %q failed: %w", d.title, err)
	}

	result, ok := final.(dialog)
	if !ok {
		return d, fmt.Errorf("dialog %q returned unexpected model %T", d.title, final)
	}
	if result.cancelled {
		return result, ErrCancelled
	}
	return result, nil
}

func (p *Dialogs) Button(title, msg string, choices []string) (string, error) {
	d, err := p.run(newButtonDialog(title, msg, choices))
	if err != nil {
		return "", err
	}
	return d.selected(), nil
}

func (p *Dialogs) Choice(title, msg string, choices []string) (string, error) {
	d, err := p.run(newChoiceDialog(title, msg, choices))
	if err != nil {
		return "", err
	}
	return d.selected(), nil
}

func (p *Dialogs) Enter(title, msg string) (string, error) {
	d, err := p.run(newEnterDialog(title, msg))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(d.values()[0]), nil
}

func (p *Dialogs) Integer(title, msg string, lo, hi int) (int, error) {
	d, err := p.run(newIntegerDialog(title, msg, lo, hi))
	if err != nil {
		return 0, err
	}
	return d.number, nil
}

func (p *Dialogs) MultiEnter(title, msg string, fields []string) ([]string, error) {
	d, err := p.run(newMultiDialog(title, msg, fields))
	if err != nil {
		return nil, err
	}
	return d.values(), nil
}

func (p *Dialogs) Text(title, msg, text string) error {
	_, err := p.run(newTextDialog(title, msg, text))
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	return err
}

func (p *Dialogs) Message(title, msg string) error {
	_, err := p.run(newMessageDialog(title, msg))
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	return err
}
