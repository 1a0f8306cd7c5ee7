// Writer implementation printing accepted telemetry to STDOUT
package ground

import (
	"encoding/json"
	"fmt"
)

// StdoutWriter prints accepted telemetry rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// Write outputs a single row.
func (w *StdoutWriter) Write(row Row) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}
