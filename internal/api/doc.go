// Package api wires HTTP routes to their handlers. Handlers translate
// requests into service calls and service results back into status codes;
// business rules live in the service layer.
package api
