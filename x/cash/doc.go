/*
Package cash defines a simple implementation of sending value between
accounts.

There is no logic in the value itself, except that the balance of any
account may not go below zero. Thus, this implementation is referred to as
cash. Simple and safe.
*/
package cash
