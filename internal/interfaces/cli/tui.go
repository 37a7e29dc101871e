package cli

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// defaultTerminalBreakpoint ширина в колонках, ниже которой терминал считается узким
const defaultTerminalBreakpoint = 100

const helpLine = "↑/↓ move · enter open · 1-6 jump · tab sidebar · esc close · q quit"

func newTUICommand(env *environment) *cobra.Command {
	var breakpoint int
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the dashboard interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env.cfg.Dashboard.Breakpoint = breakpoint
			if err := env.build(); err != nil {
				return err
			}

			model, err := newTUIModel(cmd.Context(), env.dashboard.Navigate, env.dashboard.Pages)
			if err != nil {
				return err
			}
			program := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().IntVar(&breakpoint, "breakpoint", defaultTerminalBreakpoint, "terminal width in columns below which the sidebar collapses")
	return cmd
}

// tuiModel связывает нажатия клавиш и ширину терминала с состоянием навигации
type tuiModel struct {
	ctx      context.Context
	navigate *usecase.NavigateUseCase
	pages    *usecase.GetSectionPageUseCase

	nav      dto.NavigationStateDTO
	items    []dto.SidebarItemDTO
	cursor   int
	page     *dto.SectionPageDTO
	err      error
	width    int
	quitting bool
}

func newTUIModel(ctx context.Context, navigate *usecase.NavigateUseCase, pages *usecase.GetSectionPageUseCase) (*tuiModel, error) {
	m := &tuiModel{ctx: ctx, navigate: navigate, pages: pages}
	m.sync(navigate.State())
	if err := m.loadPage(); err != nil {
		return nil, err
	}
	for i, item := range m.items {
		if item.Active {
			m.cursor = i
		}
	}
	return m, nil
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		update, err := m.navigate.SetViewportWidth(m.ctx, msg.Width)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.sync(update.State)

	case tea.KeyPressMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *tuiModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		m.selectAt(m.cursor)
	case "tab", "s":
		m.sync(m.navigate.ToggleSidebar(m.ctx).State)
	case "esc":
		m.sync(m.navigate.CloseSidebar(m.ctx).State)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if idx := int(key[0] - '1'); idx < len(m.items) {
				m.cursor = idx
				m.selectAt(idx)
			}
		}
	}
	return m, nil
}

func (m *tuiModel) selectAt(idx int) {
	section, err := valueobject.ParseSection(m.items[idx].Section)
	if err != nil {
		m.err = err
		return
	}
	update, err := m.navigate.Select(m.ctx, section, entity.SourceTerminal)
	if err != nil {
		m.err = err
		return
	}
	m.sync(update.State)
	m.err = m.loadPage()
}

func (m *tuiModel) sync(state dto.NavigationStateDTO) {
	m.nav = state
	section, err := valueobject.ParseSection(state.ActiveSection)
	if err != nil {
		section = valueobject.DefaultSection
	}
	m.items = m.pages.Sidebar(section)
}

func (m *tuiModel) loadPage() error {
	section, err := valueobject.ParseSection(m.nav.ActiveSection)
	if err != nil {
		return err
	}
	page, err := m.pages.Execute(m.ctx, section)
	if err != nil {
		return err
	}
	m.page = page
	return nil
}

// sidebarVisible на широком терминале сайдбар закреплен, на узком открывается по tab
func (m *tuiModel) sidebarVisible() bool {
	if !m.nav.ShowSidebar {
		return false
	}
	return !m.nav.IsNarrowViewport || m.nav.SidebarOpen
}

func (m *tuiModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	content := renderPage(m.page)
	if m.err != nil {
		content = errorStyle.Render("Error: "+m.err.Error()) + "\n\n" + content
	}

	body := content
	if m.sidebarVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}

	mode := "wide"
	if m.nav.IsNarrowViewport {
		mode = "narrow"
	}
	status := mutedStyle.Render(fmt.Sprintf("%s · %s · %s", m.nav.ActiveSection, mode, helpLine))

	v := tea.NewView(body + "\n" + status)
	v.AltScreen = true
	return v
}

func (m *tuiModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("RAI Dashboard"))
	b.WriteString("\n\n")
	for i, item := range m.items {
		marker := "  "
		if i == m.cursor {
			marker = selectedStyle.Render("› ")
		}
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if item.Active {
			label = activeStyle.Render(label)
		}
		b.WriteString(marker + label + "\n")
	}
	return sidebarStyle.Render(strings.TrimRight(b.String(), "\n"))
}
