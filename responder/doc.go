// Package responder implements the pluggable responder services that turn a
// raw user reply into a classified outcome (ComplianceClassifier) or a
// free-text query into advisory text (GeneralResponder). Classification is a
// pure function of its inputs; only classified outcomes drive orchestration.
package responder
