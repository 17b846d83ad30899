package iocli

//go:generate moq -out io_mock.go . IO

// IO - ввод/вывод команд CLI
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	// Confirm задает вопрос да/нет; пустой ответ - нет
	Confirm(prompt string) (bool, error)
	Write(p []byte) (n int, err error)
}
