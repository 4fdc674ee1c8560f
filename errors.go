package mediacheck

import (
	"fmt"
)

// ErrorKind classifies every failure reported by a Gate or a Tester.
type ErrorKind int

// ErrorKind definitions.
const (
	ParameterError ErrorKind = iota + 1
	BrowserNotSupported
	VideoNotFound
	VideoDenied
	AudioNotFound
	AudioDenied
	InvalidState
)

func (k ErrorKind) String() string {
	switch k {
	case ParameterError:
		return "ParameterError"
	case BrowserNotSupported:
		return "BrowserNotSupported"
	case VideoNotFound:
		return "VideoNotFound"
	case VideoDenied:
		return "VideoDenied"
	case AudioNotFound:
		return "AudioNotFound"
	case AudioDenied:
		return "AudioDenied"
	case InvalidState:
		return "InvalidState"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var defaultMessages = map[ErrorKind]string{
	ParameterError:      "Invalid parameter.",
	BrowserNotSupported: "Your browser doesn't support WebRTC.",
	VideoNotFound:       "Unable to detect a video camera. Please ensure you've installed and tested your webcam.",
	VideoDenied:         "Your browser is preventing access to your camera and microphone. Please check your browser settings (usually an icon in the address bar) to enable access.",
	AudioNotFound:       "Unable to detect a microphone. Usually your video camera will have an integrated microphone, but if not please attach and enable one.",
	AudioDenied:         "Your browser is preventing access to your microphone. Please check your browser settings (usually an icon in the address bar) to enable access.",
	InvalidState:        "The operation is not allowed in the current state.",
}

// Error is a classified failure. Two errors match with errors.Is when their
// kinds are equal, so the sentinels below can be used as targets.
type Error struct {
	Kind    ErrorKind
	Message string
	// Err is the underlying provider or device failure, if any.
	Err error
}

// NewError creates an error of kind. An empty message selects the default
// user-facing text of kind.
func NewError(kind ErrorKind, message string) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, err error) *Error {
	e := NewError(kind, "")
	e.Err = err
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrParameter           = NewError(ParameterError, "")
	ErrBrowserNotSupported = NewError(BrowserNotSupported, "")
	ErrVideoNotFound       = NewError(VideoNotFound, "")
	ErrVideoDenied         = NewError(VideoDenied, "")
	ErrAudioNotFound       = NewError(AudioNotFound, "")
	ErrAudioDenied         = NewError(AudioDenied, "")
	ErrInvalidState        = NewError(InvalidState, "")
)
