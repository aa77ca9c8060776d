// Package cli is the interactive weightkeeper shell.
//
// It wires configuration, the encrypted credential store, the measurements
// database and the passcode screens, then routes the user the way the app
// does on every launch: onboarding on first run, the unlock screen when a
// passcode is set, otherwise straight to the main prompt.
//
// Passcode screens read one line at a time. Digits are typed as a line
// ("12345"); "<" deletes the last digit, "skip" and "forgot" open the
// matching dialogs, "bio" shows the biometric prompt again and "q" leaves.
//
// The main prompt supports:
//
//	add <kg> [YYYY-MM-DD]   record a weight
//	l | list                show recorded weights
//	passcode                change or remove the passcode
//	lock                    lock the app
//	stats                   print authentication counters
//	signout                 erase passcode and all measurements
//	exit | quit             leave the program
//
// App.Run blocks until the user leaves or input ends.
package cli
