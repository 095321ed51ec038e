package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Stdio реализует IO поверх произвольных reader/writer (по умолчанию os.Stdin/os.Stdout)
type Stdio struct {
	in          *bufio.Reader
	out         io.Writer
	interactive func() bool
	mu          sync.Mutex
}

// NewStdio создает IO для стандартных потоков процесса
func NewStdio() IO {
	fd := int(os.Stdin.Fd())
	return &Stdio{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: func() bool { return term.IsTerminal(fd) },
	}
}

// NewStream создает неинтерактивный IO (скрипты, тесты)
func NewStream(in io.Reader, out io.Writer) IO {
	return &Stdio{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: func() bool { return false },
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) IsInteractive() bool {
	return s.interactive()
}

// ReadInput читает одну строку. Последняя строка без перевода строки тоже возвращается.
func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
