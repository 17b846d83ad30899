package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio - IO поверх терминала. Один буферизованный reader на процесс,
// чтобы интерактивная оболочка и промпты команд не теряли ввод.
type Stdio struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
	tty    bool
}

// NewStdio создает IO поверх os.Stdin/os.Stdout
func NewStdio() IO {
	fd := int(os.Stdin.Fd())
	return &Stdio{
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		fd:     fd,
		tty:    term.IsTerminal(fd),
	}
}

// New создает IO поверх произвольных потоков; пароль читается как обычная строка
func New(in io.Reader, out io.Writer) IO {
	return &Stdio{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

// Write пишет в вывод как есть (для tabwriter и шаблонов)
func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword читает пароль без эха; без терминала - обычной строкой
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	if !s.tty {
		return s.ReadInput(prompt)
	}
	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(s.fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// Confirm задает вопрос y/N; любой ответ кроме y/yes - отказ
func (s *Stdio) Confirm(prompt string) (bool, error) {
	answer, err := s.ReadInput(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
