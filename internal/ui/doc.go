// Package ui renders the ebs search screen with Bubble Tea.
//
// The model owns no search state. Key presses become events on the results
// pipeline's input channels, and the pipeline's snapshot, indicator and title
// streams come back as Bubble Tea messages.
package ui
