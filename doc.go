// Package main is the entry point of passgate, a web service that logs users
// in with email and password and keeps them authenticated with a server side
// cookie session. Users live in a gorm database or a json-server style REST
// backend; credentials are checked locally or against an LDAP directory.
package main
