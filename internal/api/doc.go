// Package api provides the chatbot platform REST API.
package api
