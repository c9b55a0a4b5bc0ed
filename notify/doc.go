/*
Package notify provides app.Notifier implementations publishing the events
of committed transactions.
*/
package notify
