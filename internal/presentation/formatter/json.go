package formatter

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct {
	out io.Writer
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{out: os.Stdout}
}

func (f *JSONFormatter) SetOutput(w io.Writer) {
	f.out = w
}

// FormatValue renders any report shape as indented JSON. Bucket rows, billing
// blocks and window summaries all go through here.
func (f *JSONFormatter) FormatValue(v interface{}) error {
	data, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.out, string(data))
	return err
}

func (f *JSONFormatter) Format(rows []Row) error {
	return f.FormatValue(rows)
}
