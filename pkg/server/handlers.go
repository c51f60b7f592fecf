package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/DataDog/zstd"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/EchoTools/texblock/pkg/blockcodec"
	"github.com/EchoTools/texblock/pkg/decompress"
	"github.com/EchoTools/texblock/pkg/texture"
)

// FormatInfo is the JSON form of one dispatch entry.
type FormatInfo struct {
	Format        string `json:"format"`
	Dest          string `json:"dest"`
	BlockWidth    int    `json:"block_width"`
	BlockHeight   int    `json:"block_height"`
	SrcBlockBytes int    `json:"src_block_bytes"`
	DstBlockBytes int    `json:"dst_block_bytes"`
	SRGB          bool   `json:"srgb"`
}

type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(format string, args ...interface{}) error {
	return &httpError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

// statusOf maps decode errors to HTTP status codes.
func statusOf(err error) int {
	var he *httpError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &he):
		return he.status
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, blockcodec.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, texture.ErrAllocation):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, texture.ErrSizeMismatch),
		errors.Is(err, texture.ErrDimensions),
		errors.Is(err, decompress.ErrVolumetric):
		return http.StatusBadRequest
	case errors.Is(err, decompress.ErrInvalidBlocks):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	entry := s.log.WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	if status >= 500 {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Debug("request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("write response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	supported := blockcodec.Supported()
	out := make([]FormatInfo, 0, len(supported))
	for _, f := range supported {
		d, err := blockcodec.Lookup(f)
		if err != nil {
			continue
		}
		out = append(out, FormatInfo{
			Format:        d.Format.String(),
			Dest:          d.Dest.String(),
			BlockWidth:    d.BlockWidth,
			BlockHeight:   d.BlockHeight,
			SrcBlockBytes: d.SrcBlockSize,
			DstBlockBytes: d.DstBlockSize,
			SRGB:          d.SRGB,
		})
	}
	s.writeJSON(w, out)
}

// decodeRequest holds the parsed parameters of a decode call.
type decodeRequest struct {
	format texture.Format
	width  int
	height int
	slices int
	slice  int
	raw    bool
}

func intParam(r *http.Request, name string, def int, required bool) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		if required {
			return 0, badRequest("missing parameter %q", name)
		}
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("invalid parameter %q: %q", name, v)
	}
	return n, nil
}

func parseDecodeRequest(r *http.Request) (*decodeRequest, error) {
	format, err := texture.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		return nil, badRequest("%v", err)
	}

	req := &decodeRequest{format: format}
	if req.width, err = intParam(r, "width", 0, true); err != nil {
		return nil, err
	}
	if req.height, err = intParam(r, "height", 0, true); err != nil {
		return nil, err
	}
	if req.slices, err = intParam(r, "slices", 1, false); err != nil {
		return nil, err
	}
	if req.slice, err = intParam(r, "slice", 0, false); err != nil {
		return nil, err
	}
	if req.slice >= req.slices {
		return nil, badRequest("slice %d out of range [0,%d)", req.slice, req.slices)
	}
	req.raw, _ = strconv.ParseBool(r.URL.Query().Get("raw"))
	return req, nil
}

// readBody reads the request body, inflating it when it is zstd encoded.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if r.Header.Get("Content-Encoding") != "zstd" {
		return io.ReadAll(body)
	}

	compressed, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	zr := zstd.NewReader(bytes.NewReader(compressed))
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, s.maxBody+1))
	if err != nil {
		return nil, badRequest("invalid zstd body: %v", err)
	}
	if int64(len(data)) > s.maxBody {
		return nil, &httpError{status: http.StatusRequestEntityTooLarge, err: fmt.Errorf("decoded body exceeds %d bytes", s.maxBody)}
	}
	return data, nil
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	req, err := parseDecodeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	src := &texture.Image{
		Width:  req.width,
		Height: req.height,
		Depth:  1,
		Slices: req.slices,
		Format: req.format,
		Data:   data,
	}
	if err := src.Check(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := decompress.DecompressParallel(src, s.sched, s.opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Texblock-Format", res.Image.Format.String())
	w.Header().Set("X-Texblock-Invalid-Blocks", strconv.FormatInt(res.InvalidBlocks, 10))

	if req.raw {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Image.Data)))
		w.Write(res.Image.Data)
		return
	}

	img, err := res.Image.ToImage(req.slice)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
