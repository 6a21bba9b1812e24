// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package json

import (
	"encoding/json"
	"fmt"
	"io"
)

// Prettify renders data as indented JSON.
func Prettify(data interface{}) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// PrettyPrint writes data to w as indented JSON followed by a new line.
func PrettyPrint(w io.Writer, data interface{}) error {
	buf, err := Prettify(data)
	if err != nil {
		return fmt.Errorf("unable to marshal message: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", buf)
	return err
}

// Print writes data to w as single line JSON.
func Print(w io.Writer, data interface{}) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("unable to marshal message: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", buf)
	return err
}
