package platform

import "sync"

// Clipboard is a host clipboard with text, HTML and image slots. Every write
// replaces the whole clipboard content.
type Clipboard interface {
	WriteText(text string)
	WriteHTML(markup, sourceURL string)
	WriteImage(data []byte, mimeType string)

	ReadText() string
	ReadHTML() (markup, sourceURL string)
	ReadImage() (data []byte, mimeType string)

	// SequenceNumber increases with every write or Clear.
	SequenceNumber() uint64

	Clear()
}

// MemoryClipboard is an in-process Clipboard.
type MemoryClipboard struct {
	mu        sync.RWMutex
	text      string
	markup    string
	sourceURL string
	image     []byte
	imageMIME string
	sequence  uint64
}

// NewMemoryClipboard returns an empty clipboard.
func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

func (c *MemoryClipboard) resetLocked() {
	c.text, c.markup, c.sourceURL = "", "", ""
	c.image, c.imageMIME = nil, ""
	c.sequence++
}

// WriteText replaces the clipboard content with plain text.
func (c *MemoryClipboard) WriteText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.text = text
}

// WriteHTML replaces the clipboard content with an HTML fragment.
func (c *MemoryClipboard) WriteHTML(markup, sourceURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.markup = markup
	c.sourceURL = sourceURL
}

// WriteImage replaces the clipboard content with an encoded image. The data
// is copied.
func (c *MemoryClipboard) WriteImage(data []byte, mimeType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.image = append([]byte(nil), data...)
	c.imageMIME = mimeType
}

// ReadText returns the stored plain text.
func (c *MemoryClipboard) ReadText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.text
}

// ReadHTML returns the stored HTML fragment and its source URL.
func (c *MemoryClipboard) ReadHTML() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.markup, c.sourceURL
}

// ReadImage returns a copy of the stored image.
func (c *MemoryClipboard) ReadImage() ([]byte, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.image == nil {
		return nil, ""
	}
	return append([]byte(nil), c.image...), c.imageMIME
}

// SequenceNumber increases on every write or clear.
func (c *MemoryClipboard) SequenceNumber() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sequence
}

// Clear empties the clipboard.
func (c *MemoryClipboard) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}
