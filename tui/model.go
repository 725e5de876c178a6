package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kisan_bazaar/marketplace"
	"kisan_bazaar/models"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeLocation
	modeDetail
	modeAdd
)

const priceStep = 500

var sortOrder = []models.SortKey{
	models.SortNewest,
	models.SortPriceLow,
	models.SortPriceHigh,
	models.SortRating,
}

// refreshedMsg reports that a refresh finished; the model re-reads the pipeline.
type refreshedMsg struct{}

type submitMsg struct {
	id  string
	err error
}

type tickMsg time.Time

// Model is the interactive listing browser. All marketplace state lives in the
// pipeline; the model keeps the last snapshot plus cursor and input state.
type Model struct {
	pipeline   *marketplace.Pipeline
	categories []models.Category
	ctx        context.Context
	now        func() time.Time

	width, height int
	mode          mode
	snap          marketplace.Snapshot
	selected      int

	input textinput.Model
	form  Form

	notification string
	notifyUntil  time.Time
	autoRefresh  time.Duration
}

func New(ctx context.Context, p *marketplace.Pipeline, categories []models.Category, autoRefresh time.Duration) Model {
	if len(categories) == 0 {
		categories = models.DefaultCategories
	}
	return Model{
		pipeline:    p,
		categories:  categories,
		ctx:         ctx,
		now:         time.Now,
		snap:        p.Snapshot(),
		input:       newInput("", 80),
		autoRefresh: autoRefresh,
	}
}

func (m Model) Init() tea.Cmd {
	if m.autoRefresh > 0 {
		return tea.Batch(m.refresh(), m.tick())
	}
	return m.refresh()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.autoRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		_ = m.pipeline.Refresh(m.ctx)
		return refreshedMsg{}
	}
}

func (m Model) submit(form models.ListingForm) tea.Cmd {
	return func() tea.Msg {
		id, err := m.pipeline.Submit(m.ctx, form)
		return submitMsg{id: id, err: err}
	}
}

// sync picks up changes made synchronously by a criteria setter.
func (m Model) sync() Model {
	m.snap = m.pipeline.Snapshot()
	if m.selected >= len(m.snap.View) {
		m.selected = len(m.snap.View) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return m
}

func (m Model) notify(msg string) Model {
	m.notification = msg
	m.notifyUntil = m.now().Add(3 * time.Second)
	return m
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshedMsg:
		// criteria may have changed since the refresh finished; read the pipeline again
		return m.sync(), nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case submitMsg:
		if msg.err != nil {
			// form stays as typed so the user can fix it
			return m.sync().notify(marketplace.UserMessage(msg.err)), nil
		}
		m.mode = modeBrowse
		m = m.sync().notify("Listing added!")
		m.selected = m.indexOf(msg.id)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch, modeLocation:
			return m.updatePrompt(msg)
		case modeAdd:
			return m.updateForm(msg)
		case modeDetail:
			switch msg.String() {
			case "esc", "enter", "q":
				m.mode = modeBrowse
			}
			return m, nil
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snap.View)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < n-1 {
			m.selected++
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		if n > 0 {
			m.selected = n - 1
		}
	case "enter":
		if n > 0 {
			m.mode = modeDetail
		}
	case "/":
		m.mode = modeSearch
		m.input.Placeholder = "crop, farmer or location"
		m.input.SetValue(m.snap.Criteria.Query)
		return m, m.input.Focus()
	case "L":
		m.mode = modeLocation
		m.input.Placeholder = "location contains"
		m.input.SetValue(m.snap.Criteria.Location)
		return m, m.input.Focus()
	case "c":
		m.pipeline.SetCategory(m.nextCategory())
		return m.sync(), nil
	case "s":
		m.pipeline.SetSort(nextSort(m.snap.Criteria.Sort))
		return m.sync(), nil
	case "]":
		c := m.snap.Criteria
		m.pipeline.SetPriceRange(c.PriceMin, c.PriceMax+priceStep)
		return m.sync(), nil
	case "[":
		c := m.snap.Criteria
		if c.PriceMax-priceStep >= c.PriceMin {
			m.pipeline.SetPriceRange(c.PriceMin, c.PriceMax-priceStep)
		}
		return m.sync(), nil
	case "x":
		m.pipeline.ResetCriteria()
		return m.sync().notify("Filters cleared"), nil
	case "r":
		m = m.notify("Refreshing...")
		return m, m.refresh()
	case "a":
		m.mode = modeAdd
		m.form = NewForm(m.pipeline.Form())
		return m, nil
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.input.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// filters apply as the user types
	if m.mode == modeSearch {
		m.pipeline.SetQuery(m.input.Value())
	} else {
		m.pipeline.SetLocation(m.input.Value())
	}
	return m.sync(), cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "ctrl+s":
		return m.notify("Submitting..."), m.submit(m.form.Values())
	case "enter":
		if m.form.Focused() == len(m.form.fields)-1 {
			return m.notify("Submitting..."), m.submit(m.form.Values())
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.focus(m.form.Focused() + 1)
		return m, cmd
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) nextCategory() string {
	cur := m.snap.Criteria.Category
	for i, c := range m.categories {
		if c.Value == cur {
			return m.categories[(i+1)%len(m.categories)].Value
		}
	}
	return m.categories[0].Value
}

func nextSort(cur models.SortKey) models.SortKey {
	for i, k := range sortOrder {
		if k == cur {
			return sortOrder[(i+1)%len(sortOrder)]
		}
	}
	return sortOrder[0]
}

func (m Model) indexOf(id string) int {
	for i, l := range m.snap.View {
		if l.ID == id {
			return i
		}
	}
	return 0
}

func (m Model) selectedListing() (models.Listing, bool) {
	if m.selected < 0 || m.selected >= len(m.snap.View) {
		return models.Listing{}, false
	}
	return m.snap.View[m.selected], true
}

func (m Model) View() string {
	parts := []string{m.renderHeader(), m.renderFilters()}
	if banner := m.snap.Status.Banner(); banner != "" {
		parts = append(parts, Banner.Render(banner))
	}

	switch m.mode {
	case modeAdd:
		parts = append(parts, FormBorder.Render(
			Title.Render("Add Listing")+"\n"+m.form.View()+
				Muted.Render("tab next  ctrl+s submit  esc cancel")))
	case modeDetail:
		parts = append(parts, m.renderDetail())
	default:
		if m.mode == modeSearch || m.mode == modeLocation {
			label := "Search: "
			if m.mode == modeLocation {
				label = "Location: "
			}
			parts = append(parts, FilterLabel.Render(label)+m.input.View())
		}
		parts = append(parts, m.renderTable())
	}

	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	count := fmt.Sprintf("%d of %d listings", len(m.snap.View), m.snap.Total)
	if m.snap.Status.Loading {
		count = "Loading..."
	}
	return Title.Render("🌾 Kisan Bazaar") + Muted.Render(count)
}

func (m Model) renderFilters() string {
	c := m.snap.Criteria
	category := c.Category
	for _, cat := range m.categories {
		if cat.Value == c.Category {
			category = cat.Icon + " " + cat.Label
		}
	}
	pair := func(label, value string) string {
		return FilterLabel.Render(label+": ") + FilterValue.Render(value)
	}
	items := []string{
		pair("Category", category),
		pair("Price", fmt.Sprintf("₹%.0f-₹%.0f", c.PriceMin, c.PriceMax)),
		pair("Sort", string(c.Sort)),
	}
	if c.Query != "" {
		items = append(items, pair("Search", c.Query))
	}
	if c.Location != "" {
		items = append(items, pair("Location", c.Location))
	}
	return " " + strings.Join(items, "  ")
}

func (m Model) visibleRows() int {
	rows := 20
	if m.height > 0 {
		rows = m.height - 8
		if rows < 5 {
			rows = 5
		}
	}
	return rows
}

func (m Model) renderTable() string {
	if len(m.snap.View) == 0 {
		if m.snap.Status.Loading {
			return Muted.Render("  Loading listings...")
		}
		return Muted.Render("  No listings match your filters. Press x to clear them.")
	}

	header := fmt.Sprintf("%-24s %8s %10s %-5s %-18s %-16s %-12s",
		"Crop", "Qty", "Price", "Grade", "Location", "Farmer", "Posted")
	rows := TableHeader.Render(header) + "\n"

	visible := m.visibleRows()
	offset := 0
	if m.selected >= visible {
		offset = m.selected - visible + 1
	}
	end := offset + visible
	if end > len(m.snap.View) {
		end = len(m.snap.View)
	}

	now := m.now()
	for i := offset; i < end; i++ {
		l := m.snap.View[i]
		crop := strings.TrimSpace(l.CropIcon + " " + l.Crop)
		row := fmt.Sprintf("%-24s %8g %10s %-5s %-18s %-16s %-12s",
			truncate(crop, 24),
			l.Quantity,
			fmt.Sprintf("₹%.0f", l.Price),
			l.Grade,
			truncate(l.Location, 18),
			truncate(l.Farmer, 16),
			marketplace.FormatPosted(l, now),
		)
		switch {
		case i == m.selected:
			row = TableSelected.Render(row)
		case l.Sold():
			row = Muted.Render(row)
		}
		rows += row + "\n"
	}

	if len(m.snap.View) > visible {
		rows += Muted.Render(fmt.Sprintf("  [%d-%d of %d]", offset+1, end, len(m.snap.View)))
	}
	return rows
}

func (m Model) renderDetail() string {
	l, ok := m.selectedListing()
	if !ok {
		return Muted.Render("Select a listing")
	}

	status := StatusSuccess.Render("Available")
	if l.Sold() {
		status = StatusError.Render("Sold")
	}
	posted := marketplace.FormatPosted(l, m.now())
	if l.Pending {
		posted = StatusPending.Render(posted)
	}

	lines := []string{
		Title.Render(strings.TrimSpace(l.CropIcon+" "+l.Crop)) + "  " + status,
		"",
		StatLabel.Render("Quantity: ") + fmt.Sprintf("%g quintals", l.Quantity),
		StatLabel.Render("Price:    ") + fmt.Sprintf("₹%.2f per quintal", l.Price),
		StatLabel.Render("Grade:    ") + l.Grade,
		StatLabel.Render("Location: ") + l.Location,
		StatLabel.Render("Posted:   ") + posted,
		"",
		StatLabel.Render("Farmer:   ") + strings.TrimSpace(l.FarmerImage+" "+l.Farmer),
		StatLabel.Render("Contact:  ") + l.Contact,
	}
	if l.Rating > 0 {
		lines = append(lines, StatLabel.Render("Rating:   ")+fmt.Sprintf("%.1f ★ (%d reviews)", l.Rating, l.Reviews))
	}
	if l.Description != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(l.Description, m.cardWidth()-4)...)
	}
	lines = append(lines, "", Muted.Render(truncate(l.ImageURL(), m.cardWidth()-4)))

	return CardBorder.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func (m Model) cardWidth() int {
	if m.width > 20 {
		return m.width - 4
	}
	return 72
}

func (m Model) renderStatusBar() string {
	left := "/ Search  L Location  c Category  [ ] Max price  s Sort  x Clear  a Add  r Refresh  q Quit"
	right := ""
	if m.now().Before(m.notifyUntil) {
		right = Notification.Render(m.notification)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	return StatusBar.Render(left) + lipgloss.NewStyle().Width(gap).Render("") + right
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 40
	}
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		if len([]rune(line))+len([]rune(word))+1 > width && line != "" {
			lines = append(lines, line)
			line = word
			continue
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
