package jtl

const lineSeparator = "\r\n"
