package app

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show transient feedback prominently when present.
	if m.statusMsg != "" && m.currentView == ViewBuilder && !m.inForm() {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewLoading:
		return "ctrl+c quit"
	case ViewLogin:
		return "enter sign in | ctrl+c quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewUpgrade:
		return "enter choose | esc cancel"
	case ViewPreview:
		return "j/k scroll | esc back"
	case ViewSettings:
		return "enter save | esc cancel"
	}

	if m.inForm() {
		return "enter submit | esc cancel"
	}
	if m.focus == focusSidebar {
		return "enter open | n new | r rename | D delete | tab builder | ? help | q quit"
	}
	return "p phase | m milestone | space toggle | e edit | d remove | J/K move | v preview | E export | tab list"
}
