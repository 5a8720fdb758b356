package dispatcher

import "github.com/broadcastlabs/op47titler/internal/teletext"

// TitleDispatcher adapts a PageEncoder and a Dispatcher into the
// scheduler.Dispatcher capability: encode rows into OP-47 packets,
// then apply them downstream.
type TitleDispatcher struct {
	dispatcher *Dispatcher
	encoder    *teletext.PageEncoder
}

func NewTitleDispatcher(d *Dispatcher, encoder *teletext.PageEncoder) *TitleDispatcher {
	return &TitleDispatcher{dispatcher: d, encoder: encoder}
}

func (t *TitleDispatcher) ShowTitle(lines []string) error {
	return t.dispatcher.Apply(t.encoder.EncodeSubtitle(lines))
}

func (t *TitleDispatcher) ClearTitle() error {
	return t.dispatcher.Apply(t.encoder.EncodeSubtitle(nil))
}
