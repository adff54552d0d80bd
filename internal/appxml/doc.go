// Package appxml reads and writes the XML form of an application definition.
//
// The document root is an <application id="..."> element. Properties are
// written in command-line order together with their type, dynamic flag and
// explicit rank, so a decoded definition synthesizes the same command line
// as the one that was encoded. Elements the decoder does not recognize are
// logged and skipped, which lets older controllers read documents written by
// newer ones.
package appxml
