package qadom

// Parse decodes json into buf in copy mode: every string is either inlined
// or copied into buf's arena region, so buf's lifetime is independent of
// json's. It returns the Document, the number of leading bytes of buf that
// form the self-contained DOM, and a non-nil error if parsing failed.
//
// On failure the returned Document is still usable if buf had room for at
// least one cell: its root reports IsError, ErrorCode and ErrorOffset. If
// buf is smaller than one cell, the returned Document is nil and only the
// error carries information.
func Parse(json, buf []byte, opts ...ParseOption) (*Document, int, error) {
	return parse(json, buf, false, opts)
}

// ParseInsitu decodes json into buf the same way as Parse, except every
// string (short ones included) aliases the (mutated) bytes of json itself
// rather than being inlined or copied into buf. json must be writable and must outlive the returned Document.
func ParseInsitu(json, buf []byte, opts ...ParseOption) (*Document, int, error) {
	return parse(json, buf, true, opts)
}

// ParseOpt is ParseOption's legacy bitmask counterpart.
func ParseOpt(json, buf []byte, opts Options) (*Document, int, error) {
	return parse(json, buf, false, []ParseOption{withLegacyOptions(opts)})
}

// ParseOptInsitu is the insitu counterpart of ParseOpt.
func ParseOptInsitu(json, buf []byte, opts Options) (*Document, int, error) {
	return parse(json, buf, true, []ParseOption{withLegacyOptions(opts)})
}

// ParseDynamic parses json into a buffer grown on demand by realloc,
// starting from nothing. The caller never supplies (or owns) an initial
// buffer; it owns only the one the returned Document ends up wrapping.
func ParseDynamic(json []byte, realloc ReallocFunc, opts ...ParseOption) (*Document, int, error) {
	opts = append([]ParseOption{WithReallocator(realloc)}, opts...)
	return parse(json, []byte{}, false, opts)
}

func withLegacyOptions(opts Options) ParseOption {
	return func(c *parseConfig) { c.applyOptions(opts) }
}

func parse(json, buf []byte, insitu bool, opts []ParseOption) (*Document, int, error) {
	cfg := defaultParseConfig()
	for _, o := range opts {
		o(&cfg)
	}

	l, perr := prepareLayout(json, buf, insitu, &cfg)
	if perr != nil {
		return errorDocument(buf, insitu, json, &cfg, perr)
	}
	if serr := runSecondPass(json, l, insitu, &cfg); serr != nil {
		return errorDocument(l.buf, insitu, json, &cfg, serr)
	}

	doc := &Document{buf: l.buf, policy: cfg.errPolicy}
	if insitu {
		doc.input = json
	}
	return doc, int(l.writtenBytes()), nil
}

// errorDocument latches perr into cell 0 of whatever buffer is available. If
// the buffer can't even hold one cell, it reports the not-set case: a nil
// Document alongside the error.
func errorDocument(buf []byte, insitu bool, json []byte, cfg *parseConfig, perr *Error) (*Document, int, error) {
	if len(buf) < cellBytes {
		return nil, 0, perr
	}
	writeCell(buf, 0, cell{
		word:    packTypeWord(TypeError, 0, 0, 0),
		length:  uint32(perr.Offset),
		payload: uint64(perr.Code),
	})
	doc := &Document{buf: buf, policy: cfg.errPolicy}
	if insitu {
		doc.input = json
	}
	return doc, cellBytes, perr
}
