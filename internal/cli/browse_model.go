package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/cli/formatter"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Lines outside the viewport: title, blank, detail (3), help.
const browseChromeLines = 6

// collapseFromLevel is the first level whose subtrees start folded.
const collapseFromLevel = 3

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Collapse key.Binding
	Expand   key.Binding
	View     key.Binding
	All      key.Binding
	Quit     key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.View, k.All, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand},
		{k.Toggle, k.View, k.All, k.Quit},
	}
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		View:     key.NewBinding(key.WithKeys("v", "tab"), key.WithHelp("v", "switch view")),
		All:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseRow is one visible node with its parent.
type browseRow struct {
	node   *domain.CostTreeNode
	parent *domain.CostTreeNode
}

// browseModel is a foldable cost tree for one session, switchable between
// views.
type browseModel struct {
	session *domain.Session
	trees   map[domain.View]*domain.CostTreeNode
	view    domain.View

	// collapsed is keyed by view then item id.
	collapsed map[domain.View]map[string]bool
	rows      []browseRow
	cursor    int

	vp    viewport.Model
	keys  browseKeyMap
	help  help.Model
	width int
}

func newBrowseModel(session *domain.Session, trees map[domain.View]*domain.CostTreeNode, view domain.View) *browseModel {
	m := &browseModel{
		session:   session,
		trees:     trees,
		view:      view,
		collapsed: make(map[domain.View]map[string]bool),
		vp:        viewport.New(80, 20),
		keys:      newBrowseKeyMap(),
		help:      help.New(),
		width:     80,
	}
	for v, tree := range trees {
		folded := make(map[string]bool)
		tree.Walk(func(n, _ *domain.CostTreeNode) bool {
			if !n.IsLeaf() && n.Level >= collapseFromLevel {
				folded[n.ItemID] = true
			}
			return true
		})
		m.collapsed[v] = folded
	}
	if m.trees[m.view] == nil {
		for _, v := range domain.AllViews() {
			if m.trees[v] != nil {
				m.view = v
				break
			}
		}
	}
	m.refresh()
	return m
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-browseChromeLines)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.Toggle):
			if n := m.selected(); n != nil && !n.IsLeaf() {
				m.setCollapsed(n.ItemID, !m.isCollapsed(n.ItemID))
			}
		case key.Matches(msg, m.keys.Collapse):
			m.collapseOrParent()
		case key.Matches(msg, m.keys.Expand):
			if n := m.selected(); n != nil && !n.IsLeaf() {
				m.setCollapsed(n.ItemID, false)
			}
		case key.Matches(msg, m.keys.View):
			m.switchView()
		case key.Matches(msg, m.keys.All):
			m.collapsed[m.view] = make(map[string]bool)
			m.refresh()
		}
		return m, nil
	}
	return m, nil
}

func (m *browseModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %s  %s",
		formatter.StyleHeader.Render(m.session.PartNumber),
		formatter.Dim(m.session.SupplierName),
		formatter.StyleBlue.Render("["+string(m.view)+"]"))
	b.WriteString(title + "\n\n")
	b.WriteString(m.vp.View() + "\n")
	b.WriteString(m.detail() + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *browseModel) selected() *domain.CostTreeNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m *browseModel) isCollapsed(id string) bool {
	return m.collapsed[m.view][id]
}

func (m *browseModel) setCollapsed(id string, v bool) {
	if m.collapsed[m.view] == nil {
		m.collapsed[m.view] = make(map[string]bool)
	}
	m.collapsed[m.view][id] = v
	m.refresh()
}

func (m *browseModel) move(delta int) {
	m.cursor = min(max(0, m.cursor+delta), max(0, len(m.rows)-1))
	m.render()
}

// collapseOrParent folds an open node, otherwise jumps to its parent.
func (m *browseModel) collapseOrParent() {
	if m.cursor >= len(m.rows) {
		return
	}
	row := m.rows[m.cursor]
	if !row.node.IsLeaf() && !m.isCollapsed(row.node.ItemID) {
		m.setCollapsed(row.node.ItemID, true)
		return
	}
	if row.parent == nil {
		return
	}
	for i, r := range m.rows {
		if r.node == row.parent {
			m.cursor = i
			break
		}
	}
	m.render()
}

// switchView keeps the cursor on the same item id when the other view has it.
func (m *browseModel) switchView() {
	var current string
	if n := m.selected(); n != nil {
		current = n.ItemID
	}

	views := domain.AllViews()
	for i, v := range views {
		if v == m.view {
			next := views[(i+1)%len(views)]
			if m.trees[next] != nil {
				m.view = next
			}
			break
		}
	}

	m.cursor = 0
	m.refresh()
	for i, r := range m.rows {
		if r.node.ItemID == current {
			m.cursor = i
			break
		}
	}
	m.render()
}

// refresh rebuilds the visible rows and re-renders the viewport.
func (m *browseModel) refresh() {
	m.rows = m.rows[:0]
	if tree := m.trees[m.view]; tree != nil {
		var walk func(n, parent *domain.CostTreeNode)
		walk = func(n, parent *domain.CostTreeNode) {
			m.rows = append(m.rows, browseRow{node: n, parent: parent})
			if m.isCollapsed(n.ItemID) {
				return
			}
			for _, c := range n.Children {
				walk(c, n)
			}
		}
		walk(tree, nil)
	}
	m.cursor = min(m.cursor, max(0, len(m.rows)-1))
	m.render()
}

func (m *browseModel) render() {
	cursorStyle := lipgloss.NewStyle().Background(formatter.ColorDim).Foreground(formatter.ColorFg)

	lines := make([]string, len(m.rows))
	for i, r := range m.rows {
		n := r.node
		marker := "·"
		if !n.IsLeaf() {
			marker = "▾"
			if m.isCollapsed(n.ItemID) {
				marker = "▸"
			}
		}
		label := fmt.Sprintf("%s%s %s", strings.Repeat("  ", max(0, n.Level-1)), marker, n.ItemName)
		label = formatter.Truncate(label, max(20, m.width-34))
		pad := max(1, m.width-34-lipgloss.Width(label))

		if i == m.cursor {
			label = cursorStyle.Render(label)
		}
		lines[i] = fmt.Sprintf("%s%s%10s  %s", label, strings.Repeat(" ", pad),
			formatter.Amount(n.ActualCost), formatter.Variance(n.Variance, n.VariancePct))
	}
	m.vp.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.cursor < m.vp.YOffset:
		m.vp.SetYOffset(m.cursor)
	case m.cursor >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m *browseModel) detail() string {
	n := m.selected()
	if n == nil {
		return formatter.Dim("(empty tree)") + "\n\n"
	}

	line1 := fmt.Sprintf("%s %s  %s", formatter.Bold(n.ItemName), formatter.Dim(n.ItemID), formatter.Dim(string(n.Category)))
	line2 := fmt.Sprintf("target %s  actual %s  variance %s",
		formatter.Money(n.TargetCost, m.session.Currency),
		formatter.Money(n.ActualCost, m.session.Currency),
		formatter.Variance(n.Variance, n.VariancePct))
	line3 := ""
	if eq, ok := n.Metadata["equipment"].(string); ok && eq != "" {
		line3 = formatter.Dim("equipment: " + eq)
	}
	return line1 + "\n" + line2 + "\n" + line3
}
