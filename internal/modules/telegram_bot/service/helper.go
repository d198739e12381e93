package service

import (
	"strconv"
	"strings"
)

const (
	callbackConfirm = "CONF::"
	callbackReject  = "REJ::"
	callbackClose   = "CLOSE::"
)

// parseCallback ожидает VERB::arg.
func parseCallback(data string) (verb, arg string, ok bool) {
	i := strings.Index(data, "::")
	if i <= 0 || i+2 >= len(data) {
		return "", "", false
	}
	return data[:i], data[i+2:], true
}

func onOff(v bool) string {
	if v {
		return "вкл"
	}
	return "выкл"
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optF(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fnum(*v)
}
