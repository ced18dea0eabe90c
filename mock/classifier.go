package mock

import "github.com/fwojciec/s1000d"

var _ s1000d.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of s1000d.Classifier.
type Classifier struct {
	ClassifyFn func(blocks []s1000d.TextBlock) []s1000d.ClassifiedBlock
}

func (c *Classifier) Classify(blocks []s1000d.TextBlock) []s1000d.ClassifiedBlock {
	return c.ClassifyFn(blocks)
}
