// Package api defines the JSON messages exchanged with the tripledger
// services. Amounts travel as decimal strings with two fractional digits
// and dates as YYYY-MM-DD.
package api
