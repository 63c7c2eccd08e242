// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice adds the generic Map and Filter helpers missing from [slices].

Both return nil for a nil input so that "absent" survives a transformation.
*/
package slice

// Map applies transform to every element.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for index, value := range input {
		result[index] = transform(value)
	}
	return result
}

// Filter keeps the elements accepted by keep, preserving order. The result is
// never nil for a non-nil input.
func Filter[T any](input []T, keep func(T) bool) []T {
	if input == nil {
		return nil
	}

	result := make([]T, 0, len(input))
	for _, value := range input {
		if keep(value) {
			result = append(result, value)
		}
	}
	return result
}
