package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/logger"
)

// scratchBuffer is a byte buffer reused across strokes. It grows to fit the
// largest target seen and never shrinks.
type scratchBuffer struct {
	buf []byte
}

// capture copies src into the buffer and returns the copy.
func (s *scratchBuffer) capture(src []byte) []byte {
	if cap(s.buf) < len(src) {
		if s.buf != nil {
			logger.Debug("paint backup grown",
				zap.Int("from", cap(s.buf)),
				zap.Int("to", len(src)))
		}
		// Drop the old buffer before allocating so it can be collected.
		s.buf = nil
		s.buf = make([]byte, len(src))
	}
	s.buf = s.buf[:len(src)]
	copy(s.buf, src)
	return s.buf
}

// capacity returns the allocated size.
func (s *scratchBuffer) capacity() int { return cap(s.buf) }
