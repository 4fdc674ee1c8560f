package camera

import (
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blackjack/webcam"
	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/frame"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

const (
	maxEmptyFrameCount = 5
	frameTimeoutSecond = 5
)

var (
	errReadTimeout = errors.New("read timeout")
	errEmptyFrame  = errors.New("empty frame")
)

func fourcc(code string) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24)
}

var supportedFormats = map[webcam.PixelFormat]frame.Format{
	fourcc("YUYV"): frame.FormatYUYV,
	fourcc("YU12"): frame.FormatI420,
	fourcc("MJPG"): frame.FormatMJPEG,
}

// Camera implementation using v4l2
// Reference: https://linuxtv.org/downloads/v4l-dvb-apis/uapi/v4l/videodev.html#videodev
type camera struct {
	path            string
	cam             *webcam.Webcam
	reversedFormats map[frame.Format]webcam.PixelFormat
	mutex           sync.Mutex
	cancel          func()
}

// Register discovers V4L2 devices and registers them to m.
func Register(m *driver.Manager) error {
	discovered := make(map[string][]string)
	var order []string

	discover := func(pattern string) {
		devices, err := filepath.Glob(pattern)
		if err != nil {
			return
		}
		for _, device := range devices {
			target, err := filepath.EvalSymlinks(device)
			if err != nil {
				continue
			}
			if _, ok := discovered[target]; !ok {
				order = append(order, target)
			}
			discovered[target] = append(discovered[target], filepath.Base(device))
		}
	}
	discover("/dev/v4l/by-path/*")
	discover("/dev/video*")

	for _, target := range order {
		labels := discovered[target]
		err := m.Register(newCamera(target), driver.Info{
			Label:      strings.Join(labels, LabelSeparator),
			DeviceType: driver.Camera,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func newCamera(path string) *camera {
	reversedFormats := make(map[frame.Format]webcam.PixelFormat)
	for k, v := range supportedFormats {
		reversedFormats[v] = k
	}

	return &camera{
		path:            path,
		reversedFormats: reversedFormats,
	}
}

func (c *camera) Open() error {
	if _, err := os.Stat(c.path); err != nil {
		return openError(c.path, err)
	}

	cam, err := webcam.Open(c.path)
	if err != nil {
		return openError(c.path, err)
	}

	c.cam = cam
	return nil
}

func (c *camera) Close() error {
	if c.cam == nil {
		return nil
	}

	if c.cancel != nil {
		// Let the reader knows that the caller has closed the camera
		c.cancel()
		// Wait until the reader unref the buffer
		c.mutex.Lock()
		defer c.mutex.Unlock()

		// StopStreaming frees the mmap buffers, frames were copied out by the reader.
		c.cam.StopStreaming()
		c.cancel = nil
	}
	err := c.cam.Close()
	c.cam = nil
	return err
}

func (c *camera) VideoRecord(p prop.Media) (video.Reader, error) {
	decoder, err := frame.NewDecoder(p.FrameFormat)
	if err != nil {
		return nil, err
	}

	pf := c.reversedFormats[p.FrameFormat]
	_, w, h, err := c.cam.SetImageFormat(pf, uint32(p.Width), uint32(p.Height))
	if err != nil {
		return nil, err
	}
	width, height := int(w), int(h)

	if err := c.cam.StartStreaming(); err != nil {
		return nil, err
	}

	cam := c.cam

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	var buf []byte
	r := video.ReaderFunc(func() (image.Image, func(), error) {
		// Lock to avoid accessing the buffer after StopStreaming()
		c.mutex.Lock()
		defer c.mutex.Unlock()

		// Wait until a frame is ready
		for i := 0; i < maxEmptyFrameCount; i++ {
			if ctx.Err() != nil {
				// Return EOF if the camera is already closed.
				return nil, func() {}, io.EOF
			}

			err := cam.WaitForFrame(frameTimeoutSecond)
			switch err.(type) {
			case nil:
			case *webcam.Timeout:
				return nil, func() {}, errReadTimeout
			default:
				// Camera has been stopped.
				return nil, func() {}, err
			}

			b, err := cam.ReadFrame()
			if err != nil {
				// Camera has been stopped.
				return nil, func() {}, err
			}

			// Frame is empty.
			// Retry reading and return errEmptyFrame if it exceeds maxEmptyFrameCount.
			if len(b) == 0 {
				continue
			}

			if len(b) > len(buf) {
				// Grow the intermediate buffer
				buf = make([]byte, len(b))
			}

			// move the memory from mmap to Go, frames must stay valid after StopStreaming
			n := copy(buf, b)
			return decoder.Decode(buf[:n], width, height)
		}
		return nil, func() {}, errEmptyFrame
	})

	return r, nil
}

func (c *camera) Properties() []prop.Media {
	properties := make([]prop.Media, 0)
	for format := range c.cam.GetSupportedFormats() {
		f, ok := supportedFormats[format]
		if !ok {
			continue
		}
		for _, frameSize := range c.cam.GetSupportedFrameSizes(format) {
			properties = append(properties, prop.Media{
				Video: prop.Video{
					Width:       int(frameSize.MaxWidth),
					Height:      int(frameSize.MaxHeight),
					FrameFormat: f,
				},
			})
		}
	}
	return properties
}
