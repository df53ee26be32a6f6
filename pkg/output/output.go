package output

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/hindiconfession/cli/pkg/config"
	json "github.com/json-iterator/go"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

var (
	mu     sync.Mutex
	writer io.Writer
)

// SetWriter redirects all output. Passing nil restores the terminal.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	writer = w
}

// Writer returns the current output destination
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if writer == nil {
		return color.Output
	}
	return writer
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Field is one line of a record
type Field struct {
	Key   string
	Value interface{}
}

// Render prints data as JSON when that format is configured and otherwise
// hands the writer to text.
func Render(data interface{}, text func(w io.Writer)) error {
	if GetOutputFormat() == FormatJSON {
		return PrintJSON(data)
	}
	text(Writer())
	return nil
}

// PrintJSON writes data as indented JSON
func PrintJSON(data interface{}) error {
	out, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(Writer(), out)
	return nil
}

// PrintList outputs rows as a table, or items as JSON when configured
func PrintList(items interface{}, headers []string, rows [][]string) error {
	if GetOutputFormat() == FormatJSON {
		return PrintJSON(items)
	}
	printTable(Writer(), headers, rows)
	return nil
}

// PrintRecord outputs an ordered record in the configured format
func PrintRecord(title string, fields []Field) error {
	w := Writer()

	switch GetOutputFormat() {
	case FormatJSON:
		record := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			record[f.Key] = f.Value
		}
		return PrintJSON(record)
	case FormatTable:
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Key, fmt.Sprintf("%v", f.Value)})
		}
		printTable(w, []string{"Field", "Value"}, rows)
		return nil
	default:
		if title != "" {
			fmt.Fprintf(w, "%s:\n", title)
		}
		bold := color.New(color.Bold)
		for _, f := range fields {
			bold.Fprint(w, f.Key+": ")
			fmt.Fprintf(w, "%v\n", f.Value)
		}
		return nil
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Writer(), msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Writer(), "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Writer(), msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Writer(), "Warning: "+msg+"\n", args...)
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(tw, h)
		if i < len(headers)-1 {
			fmt.Fprint(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(tw, cell)
			if i < len(row)-1 {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}

	tw.Flush()
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// FormatAsPrettyJSON converts data to an indented JSON string
func FormatAsPrettyJSON(data interface{}) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}
