//go:build !windows

package jtl

const lineSeparator = "\n"
