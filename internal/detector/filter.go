package detector

// VisibleChannels returns the channels the bot may scan: those it can both
// view and read history in. Platform order is preserved.
func VisibleChannels(channels []Channel) []Channel {
	visible := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.CanView && ch.CanReadHistory {
			visible = append(visible, ch)
		}
	}
	return visible
}
