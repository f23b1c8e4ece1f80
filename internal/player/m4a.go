package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// m4aStream decodes the audio track of an MP4 container. Catalog streams are
// AAC; ALAC is handled for local files that end up in the queue.
type m4aStream struct {
	box      *m4a.Reader
	closer   io.Closer
	codec    m4a.CodecType
	err      error
	next     int // index of the next container sample to decode
	total    int // length in frames
	bits     int
	channels int

	aac  *faad2.Decoder
	alac *alac.Alac

	pending [][2]float64
	offset  int
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, string, error) {
	box, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	codec := box.Codec()
	rate := box.SampleRate()
	precision := 2
	if codec == m4a.CodecALAC && box.SampleSize() == 24 {
		precision = 3
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   precision,
	}

	s := &m4aStream{
		box:      box,
		closer:   rc,
		codec:    codec,
		total:    int(box.Duration().Seconds() * float64(rate)),
		bits:     int(box.SampleSize()),
		channels: int(box.Channels()),
	}

	switch codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		if err := dec.Init(ctx, box.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, "", err
		}
		s.aac = dec
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(rate),
			SampleSize:  int(box.SampleSize()),
			NumChannels: int(box.Channels()),
			FrameSize:   4096,
		})
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		s.alac = dec
	case m4a.CodecUnknown:
		return nil, beep.Format{}, "", errors.New("m4a: unsupported codec")
	}

	return s, format, codec.String(), nil
}

func (s *m4aStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	for n < len(samples) {
		if s.offset < len(s.pending) {
			c := copy(samples[n:], s.pending[s.offset:])
			s.offset += c
			n += c
			continue
		}
		if s.next >= s.box.SampleCount() {
			return n, n > 0
		}

		raw, err := s.box.ReadSample(s.next)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.next++

		switch s.codec {
		case m4a.CodecAAC:
			pcm, err := s.aac.Decode(context.Background(), raw)
			if err != nil {
				s.err = err
				return n, n > 0
			}
			s.pending = pcm16ToFrames(pcm, s.channels)
		case m4a.CodecALAC:
			s.pending = alacToFrames(s.alac.Decode(raw), s.bits, s.channels)
		case m4a.CodecUnknown:
			s.err = errors.New("m4a: unsupported codec")
			return n, n > 0
		}
		s.offset = 0
	}
	return n, true
}

// pcm16ToFrames converts interleaved int16 PCM to stereo frames. Mono input
// is duplicated to both channels.
func pcm16ToFrames(pcm []int16, channels int) [][2]float64 {
	if channels == 2 {
		frames := make([][2]float64, len(pcm)/2)
		for i := range frames {
			frames[i][0] = float64(pcm[i*2]) / 32768.0
			frames[i][1] = float64(pcm[i*2+1]) / 32768.0
		}
		return frames
	}
	frames := make([][2]float64, len(pcm))
	for i, v := range pcm {
		f := float64(v) / 32768.0
		frames[i] = [2]float64{f, f}
	}
	return frames
}

// alacToFrames converts little-endian ALAC output (16 or 24 bit) to stereo
// frames.
func alacToFrames(data []byte, bits, channels int) [][2]float64 {
	width := 2
	scale := 32768.0
	if bits == 24 {
		width = 3
		scale = 8388608.0
	}

	stride := width * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		left := readSample(data[off:], width)
		right := left
		if channels == 2 {
			right = readSample(data[off+width:], width)
		}
		frames[i][0] = float64(left) / scale
		frames[i][1] = float64(right) / scale
	}
	return frames
}

func readSample(b []byte, width int) int32 {
	if width == 2 {
		return int32(int16(b[0]) | int16(b[1])<<8)
	}
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.total }

func (s *m4aStream) Position() int {
	return int(s.box.SampleTime(s.next).Seconds() * float64(s.box.SampleRate()))
}

func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.total)
	pos := time.Duration(float64(p) / float64(s.box.SampleRate()) * float64(time.Second))

	s.next = s.box.SeekToTime(pos)
	s.pending = nil
	s.offset = 0
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return s.closer.Close()
}
