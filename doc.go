/*

Package escrowd defines interfaces used throughout the app, such as: storage, transactions, handlers etc.
It also contains helpers to work with context, addresses and time.
Look into this package to get a brief overview of design decisions made around interfaces and extension
building blocks. The escrow lifecycle itself lives in x/escrow.

*/

package escrowd
