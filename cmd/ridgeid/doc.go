// Command ridgeid enrolls and identifies students from fingerprint images.
//
// Each subcommand opens the roster database itself and closes it before
// returning; there is no long-lived daemon apart from "ridgeid serve".
package main
