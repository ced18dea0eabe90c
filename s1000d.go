// Package s1000d converts technical PDF documents into XML data modules
// loosely structured after the S1000D technical publication standard.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., pdfcpu/, etree/, sqlite/, http/).
package s1000d
