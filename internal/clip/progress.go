package clip

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// timestampPattern matches the time= field on ffmpeg's periodic stats lines.
var timestampPattern = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2})\.(\d+)`)

const tailLines = 5

// reporter consumes ffmpeg's diagnostic stream, reporting a clamped percent
// for every discovered timestamp and retaining the last few lines for error
// context.
type reporter struct {
	total   float64
	pattern *regexp.Regexp
	notify  func(int)
	tail    []string
}

func newReporter(total float64, pattern *regexp.Regexp, notify func(int)) *reporter {
	return &reporter{total: total, pattern: pattern, notify: notify}
}

// Consume reads the stream to EOF, splitting on carriage returns or
// newlines and buffering partial lines until a delimiter is seen.
func (r *reporter) Consume(rd io.Reader) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanCRLines)
	for scanner.Scan() {
		r.handleLine(scanner.Text())
	}
	return scanner.Err()
}

func (r *reporter) handleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	r.tail = append(r.tail, line)
	if len(r.tail) > tailLines {
		r.tail = r.tail[1:]
	}

	if r.notify == nil || r.total <= 0 {
		return
	}
	match := r.pattern.FindStringSubmatch(line)
	if match == nil {
		return
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	fraction, _ := strconv.ParseFloat("0."+match[4], 64)

	current := float64(hours*3600+minutes*60+seconds) + fraction
	percent := int(math.Round(current / r.total * 100))
	if percent > 100 {
		percent = 100
	}
	r.notify(percent)
}

// Tail returns the retained diagnostic lines joined for error reporting.
func (r *reporter) Tail() string {
	return strings.Join(r.tail, " | ")
}

// scanCRLines is a bufio.SplitFunc splitting on \r or \n. ffmpeg rewrites
// its stats line in place using carriage returns, so plain line scanning
// would sit on the progress output until the process exits.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
