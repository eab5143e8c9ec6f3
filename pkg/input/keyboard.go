package input

import (
	"github.com/eiannone/keyboard"
)

// KeyboardHandler handles keyboard input
type KeyboardHandler struct {
	inputChan chan KeyInput
}

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput, 64),
	}
}

// Start begins listening for keyboard input
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			h.inputChan <- KeyInput{Char: char, Key: key}
		}
	}()

	return nil
}

// Stop stops the keyboard handler
func (h *KeyboardHandler) Stop() {
	keyboard.Close()
}

// GetInputChan returns the input channel
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// Poll drains everything pressed since the last call and returns the raw
// keys for this tick plus whether a quit key was seen. Arrow keys map to
// their WASD equivalents so bindings stay plain strings.
func (h *KeyboardHandler) Poll() (keys []string, quit bool) {
	for {
		select {
		case ev := <-h.inputChan:
			if IsQuit(ev) {
				quit = true
				continue
			}
			if k, ok := KeyString(ev); ok {
				keys = append(keys, k)
			}
		default:
			return keys, quit
		}
	}
}

// KeyString converts an input event into the raw key string used in
// token namespacing.
func KeyString(input KeyInput) (string, bool) {
	switch input.Key {
	case keyboard.KeyArrowUp:
		return "w", true
	case keyboard.KeyArrowDown:
		return "s", true
	case keyboard.KeyArrowLeft:
		return "a", true
	case keyboard.KeyArrowRight:
		return "d", true
	}

	if input.Char != 0 {
		return string(input.Char), true
	}
	return "", false
}

// IsQuit checks if the input is a quit command
func IsQuit(input KeyInput) bool {
	return input.Char == 'q' || input.Char == 'Q' ||
		input.Key == keyboard.KeyEsc || input.Key == keyboard.KeyCtrlC
}
