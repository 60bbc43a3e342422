package main

import (
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/qadom/qadom"
)

// diffAgainstJSONIter decodes original through jsoniter into a generic
// interface{} tree, decodes qadom's Sprint output of the same document the
// same way, and compares the two trees — a structural cross-check against
// an independent decoder.
func diffAgainstJSONIter(original []byte, doc *qadom.Document) error {
	var want interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(original, &want); err != nil {
		return fmt.Errorf("jsoniter could not decode input for --diff: %w", err)
	}

	qadomOut := make([]byte, len(original)*2+64)
	n := qadom.Sprint(doc.Root(), qadomOut)

	var got interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(qadomOut[:n], &got); err != nil {
		return fmt.Errorf("--diff: qadom output did not re-parse as JSON: %w", err)
	}

	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("--diff: qadom and jsoniter disagree on decoded structure")
	}
	fmt.Println("--diff: qadom and jsoniter agree on decoded structure")
	return nil
}
