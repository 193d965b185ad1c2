// icebergtool - офлайн-утилиты: разбор сохранённой страницы истории,
// шифрование пароля для OKCOIN_PASSWORD и хеш токена для API_TOKEN_HASH.
//
//	icebergtool decode -file page.html [-status cancelled]
//	icebergtool encrypt -key <32 bytes> -value <password>
//	icebergtool hash -value <token> [-cost 12]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"okcoinweb/internal/service"
	"okcoinweb/internal/webpage"
	"okcoinweb/pkg/crypto"
	"okcoinweb/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const usage = `usage: icebergtool <command> [flags]

commands:
  decode   decode a saved iceberg history page to JSON
  encrypt  encrypt the exchange password for OKCOIN_PASSWORD
  hash     hash an API token for API_TOKEN_HASH
`

func main() {
	logger := utils.InitLogger(utils.LogConfig{Level: "warn", Format: "text", Output: "stderr"})
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, logger))
}

// run возвращает код выхода: 0 - успех, 1 - ошибка, 2 - неверные аргументы
func run(args []string, stdout, stderr io.Writer, logger *utils.Logger) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "decode":
		err = runDecode(args[1:], stdout, stderr)
	case "encrypt":
		err = runEncrypt(args[1:], stdout, stderr)
	case "hash":
		err = runHash(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		logger.Error("command failed", utils.String("command", args[0]), utils.Err(err))
		return 1
	}
}

// errUsage - аргументы неверны, сообщение уже выведено flag или командой
var errUsage = errors.New("invalid arguments")

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// runDecode разбирает страницу из файла ("-" - stdin)
func runDecode(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("decode", stderr)
	file := fs.String("file", "", "saved HTML page, - for stdin")
	statusFlag := fs.String("status", "", "keep only orders with this status")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *file == "" {
		fmt.Fprintln(stderr, "decode: -file is required")
		return errUsage
	}

	status, err := service.ParseStatus(*statusFlag)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	history, err := webpage.NewIcebergOrdersReader().ReadHTML(in)
	if err != nil {
		return err
	}
	history.Orders = service.FilterByStatus(history.Orders, status)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(history)
}

// runEncrypt печатает значение для OKCOIN_PASSWORD
func runEncrypt(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("encrypt", stderr)
	key := fs.String("key", "", "ENCRYPTION_KEY, exactly 32 bytes")
	value := fs.String("value", "", "password to encrypt")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *value == "" {
		fmt.Fprintln(stderr, "encrypt: -value is required")
		return errUsage
	}

	encrypted, err := crypto.EncryptSecret(*value, *key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, encrypted)
	return err
}

// runHash печатает значение для API_TOKEN_HASH
func runHash(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("hash", stderr)
	value := fs.String("value", "", "API token")
	cost := fs.Int("cost", crypto.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	hash, err := crypto.HashToken(*value, *cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, hash)
	return err
}
