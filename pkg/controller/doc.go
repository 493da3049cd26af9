/*
Package controller binds user intents to the practice state machine.

A Controller owns one practice.Machine for its lifetime. Every intent returns the
session snapshot that resulted from it; guard violations are swallowed (logged at debug
level) because a disabled button that was pressed anyway is not an error worth showing.

Render layers either poll Snapshot or Subscribe to receive a snapshot after every
completed transition, including the entry into a busy state.
*/
package controller
