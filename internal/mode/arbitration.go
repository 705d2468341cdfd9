package mode

// activeMinors returns the active minor modes in registration order.
func (m *Manager) activeMinors() []MinorMode {
	out := make([]MinorMode, 0, len(m.minors))
	for _, name := range m.minorNames {
		if mm, ok := m.minors[name]; ok && mm.IsActive() {
			out = append(out, mm)
		}
	}
	return out
}

// highestBidder returns the active minor mode with the strictly highest
// bid above NoBid, or nil. Ties keep the earliest registered mode.
func (m *Manager) highestBidder(bid func(MinorMode) int) MinorMode {
	var winner MinorMode
	highest := NoBid
	for _, mm := range m.activeMinors() {
		if b := bid(mm); b > highest {
			winner = mm
			highest = b
		}
	}
	return winner
}

// RunViewportHovering lets active minor modes bid for the hover gesture
// and delivers it to the winner, which is returned. It returns nil when no
// mode bid.
func (m *Manager) RunViewportHovering(vi Interaction) MinorMode {
	winner := m.highestBidder(func(mm MinorMode) int { return mm.ViewportHoverBid(vi) })
	if winner != nil {
		winner.ViewportHovering(vi)
	}
	return winner
}

// RunViewportDragging lets active minor modes bid for the drag gesture and
// delivers it to the winner. The host sets vi.Start and vi.End.
func (m *Manager) RunViewportDragging(vi Interaction) MinorMode {
	winner := m.highestBidder(func(mm MinorMode) int { return mm.ViewportDragBid(vi) })
	if winner != nil {
		winner.ViewportDragging(vi)
	}
	return winner
}

// RunModeUIs calls RunUI on every active minor mode.
func (m *Manager) RunModeUIs(vi Interaction) {
	for _, mm := range m.activeMinors() {
		mm.RunUI(vi)
	}
}

// RunModeRendering calls Render on every active minor mode.
func (m *Manager) RunModeRendering(vi Interaction) {
	for _, mm := range m.activeMinors() {
		mm.Render(vi)
	}
}

// RunMainMenu calls Menu on every active minor mode.
func (m *Manager) RunMainMenu() {
	for _, mm := range m.activeMinors() {
		mm.Menu()
	}
}

// RunToolBar calls ToolBar on every active minor mode.
func (m *Manager) RunToolBar() {
	for _, mm := range m.activeMinors() {
		mm.ToolBar()
	}
}
