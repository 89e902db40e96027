/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"strings"
)

// Logger is the scrollable event log shown in the debug view.
type Logger struct {
	// buf contains each line of logged text.
	buf []string

	// pos is the line just past the bottom of the view.
	pos int

	// limit is the most lines kept; older lines are dropped.
	limit int
}

// NewLog creates a new Logger that keeps up to limit lines.
func NewLog(limit int) *Logger {
	return &Logger{
		buf:   make([]string, 0, 100),
		limit: limit,
	}
}

// Log outputs a new line to the log.
func (l *Logger) Log(s ...string) {
	l.append(strings.Join(s, " "))
}

// Logln outputs a new line to the log, with an empty line prefixed.
func (l *Logger) Logln(s ...string) {
	l.append("", strings.Join(s, " "))
}

func (l *Logger) append(lines ...string) {
	scroll := l.pos == len(l.buf)

	l.buf = append(l.buf, lines...)

	if scroll {
		l.pos = len(l.buf)
	}

	// drop the oldest lines
	if n := len(l.buf) - l.limit; l.limit > 0 && n > 0 {
		l.buf = append(l.buf[:0], l.buf[n:]...)
		l.pos = max(l.pos-n, 0)
	}
}

// Len returns the number of lines in the log.
func (l *Logger) Len() int {
	return len(l.buf)
}

// Window returns up to n lines ending at the read position.
func (l *Logger) Window(n int) []string {
	start := max(l.pos-n, 0)

	if start+n >= len(l.buf) {
		return l.buf[start:]
	}

	return l.buf[start : start+n]
}

// Home scrolls the log to the beginning.
func (l *Logger) Home() {
	l.pos = 0
}

// End scrolls the log to the end.
func (l *Logger) End() {
	l.pos = len(l.buf)
}

// ScrollUp scrolls the log back one position.
func (l *Logger) ScrollUp(windowSize int) {
	l.pos--

	// everything before the window size shows the first page
	if l.pos < windowSize {
		l.Home()
	}
}

// ScrollDown scrolls the log forward one position.
func (l *Logger) ScrollDown(windowSize int) {
	l.pos++

	// if less than the window size, drop to it
	if l.pos <= windowSize {
		l.pos = windowSize + 1
	}

	// clamp to end
	if l.pos >= len(l.buf) {
		l.End()
	}
}
