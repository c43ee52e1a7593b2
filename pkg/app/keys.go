package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists every binding the dashboard understands. The mode bindings
// are interpreted by the focused widget.
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Search   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Expand   key.Binding
	Back     key.Binding
	ModeNext key.Binding
	ModePrev key.Binding
	ModePick key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "終了")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ヘルプ")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "絞り込み")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "次へ")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "前へ")),
		Expand:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "拡大")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "戻る")),
		ModeNext: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "次の表示")),
		ModePrev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "前の表示")),
		ModePick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "表示を選択"),
		),
		ScrollUp: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "上へ")),
		ScrollDn: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "下へ")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Expand, k.ModeNext, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Expand, k.Back},
		{k.ModeNext, k.ModePrev, k.ModePick},
		{k.ScrollUp, k.ScrollDn},
		{k.Search, k.Help, k.Quit},
	}
}
