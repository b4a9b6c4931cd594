// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package convert parses loosely-typed request values.
package convert

import (
	"strconv"
	"strings"
)

// ToInt parses a decimal integer, ignoring surrounding spaces. ok is false
// when str is blank or not a number.
func ToInt(str string) (value int, ok bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, false
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, false
	}
	return v, true
}
