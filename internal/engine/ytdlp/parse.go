package ytdlp

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vmunix/ytjar/internal/fetch"
)

var errNoJSON = errors.New("no JSON document in yt-dlp output")

// parseMetadata reads the document printed by --dump-single-json.
func parseMetadata(stdout string) (*fetch.Metadata, error) {
	doc := lastJSONLine(stdout)
	if doc == "" {
		return nil, errNoJSON
	}
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("invalid yt-dlp JSON output")
	}

	r := gjson.Parse(doc)
	m := &fetch.Metadata{
		ID:           r.Get("id").String(),
		Title:        r.Get("title").String(),
		Uploader:     r.Get("uploader").String(),
		Channel:      r.Get("channel").String(),
		LiveStatus:   r.Get("live_status").String(),
		Availability: r.Get("availability").String(),
		Duration:     r.Get("duration").Float(),
	}
	r.Get("formats").ForEach(func(_, f gjson.Result) bool {
		m.Formats = append(m.Formats, parseFormat(f))
		return true
	})
	return m, nil
}

func parseFormat(f gjson.Result) fetch.Format {
	size := f.Get("filesize").Int()
	if size == 0 {
		size = f.Get("filesize_approx").Int()
	}
	return fetch.Format{
		ID:         f.Get("format_id").String(),
		Ext:        f.Get("ext").String(),
		Resolution: f.Get("resolution").String(),
		FPS:        f.Get("fps").Float(),
		VCodec:     f.Get("vcodec").String(),
		ACodec:     f.Get("acodec").String(),
		Bitrate:    f.Get("tbr").Float(),
		Filesize:   size,
		Note:       f.Get("format_note").String(),
	}
}

// parseDownload reads the info document printed by --print-json after a
// download. The final path comes from requested_downloads when post
// processing changed the extension.
func parseDownload(stdout string) *fetch.Download {
	doc := lastJSONLine(stdout)
	if doc == "" || !gjson.Valid(doc) {
		return &fetch.Download{}
	}
	r := gjson.Parse(doc)

	file := r.Get("requested_downloads.0.filepath").String()
	if file == "" {
		file = r.Get("_filename").String()
	}
	if file == "" {
		file = r.Get("filename").String()
	}
	return &fetch.Download{Title: r.Get("title").String(), File: file}
}

// lastJSONLine returns the last line that looks like a JSON object.
// yt-dlp may print warnings and progress lines around it.
func lastJSONLine(out string) string {
	var last string
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			last = line
		}
	}
	return last
}

// unavailableMarkers are yt-dlp error fragments for content that no retry or
// credential refresh will fix.
var unavailableMarkers = []string{
	"video unavailable",
	"private video",
	"this video is private",
	"this video has been removed",
	"this video is no longer available",
	"this live event will begin",
	"premieres in",
	"available in your country",
	"members-only content",
	"join this channel to get access",
}

// classify wraps err with fetch.ErrUnavailable when the yt-dlp output says the
// content cannot be fetched.
func classify(err error, stderr string) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error() + "\n" + stderr)
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %s", fetch.ErrUnavailable, firstError(stderr, err))
		}
	}
	if line := firstError(stderr, nil); line != "" {
		return fmt.Errorf("%w: %s", err, line)
	}
	return err
}

// firstError returns the first "ERROR:" line of stderr, or fallback's text.
func firstError(stderr string, fallback error) string {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	if fallback != nil {
		return fallback.Error()
	}
	return ""
}
