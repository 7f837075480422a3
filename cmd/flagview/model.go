package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flagkit/flagkit/pkg/flagkit"
)

// flagItem adapts one store key to the bubbles/list.Item interface.
type flagItem struct {
	key     string
	display string
}

func (i flagItem) Title() string       { return i.key }
func (i flagItem) Description() string { return i.display }
func (i flagItem) FilterValue() string { return i.key }

const maxEventLog = 8

type model struct {
	store *flagkit.Store
	list  list.Model

	// refreshCh carries every change in the store, so the list's displayed
	// values stay current even for keys the detail pane isn't watching
	// (e.g. a computed key recomputing off-screen).
	refreshCh chan struct{}
	// detailCh carries changes to whichever key the detail pane currently
	// tracks, via a per-key subscription rebound on each selection change.
	detailCh chan flagkit.Event
	events   []string

	width, height int
	ready         bool

	detailKey string
	detailSub flagkit.Deregister

	lastErr error
}

func newModel(store *flagkit.Store) *model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "flagview"
	l.SetShowHelp(false)

	m := &model{
		store:     store,
		list:      l,
		refreshCh: make(chan struct{}, 64),
		detailCh:  make(chan flagkit.Event, 64),
	}
	m.refreshItems()
	return m
}

func (m *model) refreshItems() {
	keys := m.store.Keys()
	sort.Strings(keys)

	items := make([]list.Item, 0, len(keys))
	for _, k := range keys {
		v, present := m.store.Get(k)
		display := "<absent>"
		if present {
			display = formatValue(v)
		}
		items = append(items, flagItem{key: k, display: display})
	}
	m.list.SetItems(items)
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(listenForRefresh(m.refreshCh), listenForDetail(m.detailCh), m.subscribeAll())
}

// subscribeAll wires a global subscription that keeps the key list current
// the moment any mutation commits, without polling the store.
func (m *model) subscribeAll() tea.Cmd {
	return func() tea.Msg {
		m.store.Subscribe(func(flagkit.Event) {
			select {
			case m.refreshCh <- struct{}{}:
			default:
			}
		})
		return nil
	}
}

func listenForRefresh(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

func listenForDetail(ch chan flagkit.Event) tea.Cmd {
	return func() tea.Msg {
		ev := <-ch
		return detailEventMsg(ev)
	}
}

type refreshMsg struct{}

type detailEventMsg flagkit.Event

func (m *model) logEvent(s string) {
	m.events = append(m.events, s)
	if len(m.events) > maxEventLog {
		m.events = m.events[len(m.events)-maxEventLog:]
	}
}

// syncDetailSubscription rebinds the detail pane's subscription to
// whichever key is currently selected, so the pane reflects live changes
// to that key even when they originate from elsewhere in this process
// (a computed recompute, an undo, another subscriber's reentrant Set).
func (m *model) syncDetailSubscription() {
	key, ok := m.selectedKey()
	if !ok || key == m.detailKey {
		return
	}
	if m.detailSub != nil {
		m.detailSub()
	}
	m.detailKey = key
	m.detailSub = m.store.SubscribeKey(key, func(ev flagkit.Event) {
		m.detailCh <- ev
	})
}

func (m *model) selectedKey() (string, bool) {
	item, ok := m.list.SelectedItem().(flagItem)
	if !ok {
		return "", false
	}
	return item.key, true
}

func describeEvent(ev flagkit.Event) string {
	old := "<absent>"
	if ev.OldPresent {
		old = formatValue(ev.Old)
	}
	neu := "<absent>"
	if ev.NewPresent {
		neu = formatValue(ev.New)
	}
	return fmt.Sprintf("%s: %s -> %s", ev.Key, old, neu)
}
