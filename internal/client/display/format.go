// FILE: internal/client/display/format.go
package display

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(w io.Writer, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Println(w, Red, "Error formatting JSON: "+err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}
