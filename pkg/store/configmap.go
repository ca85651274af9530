/**
 * Copyright 2025 Advanced Micro Devices, Inc.  All rights reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
**/

package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/tablesync/airtable-export/pkg/fsops"
)

const (
	managedByLabel      = "app.kubernetes.io/managed-by"
	managedByValue      = "airtable-export"
	filenameAnnotation  = "airtable-export/filename"
	updatedAtAnnotation = "airtable-export/updated-at"
	dataKey             = "config.json"
)

var invalidNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// ConfigMapStore keeps each config in its own ConfigMap, labelled so List
// can find them and annotated with the original file name.
type ConfigMapStore struct {
	client    kubernetes.Interface
	namespace string
	now       func() time.Time
}

func NewConfigMapStore(client kubernetes.Interface, namespace string) *ConfigMapStore {
	if namespace == "" {
		namespace = "default"
	}
	return &ConfigMapStore{client: client, namespace: namespace, now: time.Now}
}

// NewConfigMapStoreFromKubeconfig uses the in-cluster config when kubeconfig is empty.
func NewConfigMapStoreFromKubeconfig(kubeconfig, namespace string) (*ConfigMapStore, error) {
	var (
		cfg *rest.Config
		err error
	)
	if kubeconfig == "" {
		cfg, err = rest.InClusterConfig()
	} else {
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("load kubernetes config: %w", err)
	}
	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes client: %w", err)
	}
	return NewConfigMapStore(client, namespace), nil
}

// ConfigMapName derives a valid object name from a config file name.
func ConfigMapName(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))

	base := strings.TrimSuffix(strings.ToLower(name), ".json")
	base = strings.Trim(invalidNameChars.ReplaceAllString(base, "-"), "-")
	if len(base) > 40 {
		base = strings.TrimRight(base[:40], "-")
	}
	if base == "" {
		base = "config"
	}
	return fmt.Sprintf("airtable-export-%s-%08x", base, h.Sum32())
}

func (s *ConfigMapStore) configMaps() typedcorev1.ConfigMapInterface {
	return s.client.CoreV1().ConfigMaps(s.namespace)
}

func (s *ConfigMapStore) entry(cm *corev1.ConfigMap) Entry {
	modified := cm.CreationTimestamp.Time
	if ts, err := time.Parse(time.RFC3339, cm.Annotations[updatedAtAnnotation]); err == nil {
		modified = ts
	}
	name := cm.Annotations[filenameAnnotation]
	path := fmt.Sprintf("configmap/%s/%s", s.namespace, cm.Name)
	return newEntry(name, path, int64(len(cm.Data[dataKey])), modified)
}

func (s *ConfigMapStore) List(ctx context.Context) ([]Entry, error) {
	list, err := s.configMaps().List(ctx, metav1.ListOptions{
		LabelSelector: fmt.Sprintf("%s=%s", managedByLabel, managedByValue),
	})
	if err != nil {
		return nil, fmt.Errorf("list config maps: %w", err)
	}

	var entries []Entry
	for i := range list.Items {
		cm := &list.Items[i]
		if ValidName(cm.Annotations[filenameAnnotation]) != nil {
			log.Warnf("Skipping config map %s without a valid file name annotation", cm.Name)
			continue
		}
		entries = append(entries, s.entry(cm))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *ConfigMapStore) get(ctx context.Context, name string) (*corev1.ConfigMap, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	cm, err := s.configMaps().Get(ctx, ConfigMapName(name), metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get config map for %s: %w", name, err)
	}
	return cm, nil
}

func (s *ConfigMapStore) Stat(ctx context.Context, name string) (Entry, error) {
	cm, err := s.get(ctx, name)
	if err != nil {
		return Entry{}, err
	}
	return s.entry(cm), nil
}

func (s *ConfigMapStore) Get(ctx context.Context, name string) ([]byte, error) {
	cm, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	return []byte(cm.Data[dataKey]), nil
}

func (s *ConfigMapStore) Put(ctx context.Context, name string, data []byte) error {
	cm, err := s.get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return s.Create(ctx, name, data)
	}
	if err != nil {
		return err
	}
	if fsops.IsDryRun() {
		log.Infof("[DRY-RUN] UPDATE CONFIGMAP: %s/%s (%d bytes)", s.namespace, cm.Name, len(data))
		return nil
	}

	cm = cm.DeepCopy()
	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	if cm.Annotations == nil {
		cm.Annotations = map[string]string{}
	}
	cm.Data[dataKey] = string(data)
	cm.Annotations[updatedAtAnnotation] = s.now().UTC().Format(time.RFC3339)
	if _, err := s.configMaps().Update(ctx, cm, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("update config map for %s: %w", name, err)
	}
	return nil
}

func (s *ConfigMapStore) Create(ctx context.Context, name string, data []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ConfigMapName(name),
			Namespace: s.namespace,
			Labels:    map[string]string{managedByLabel: managedByValue},
			Annotations: map[string]string{
				filenameAnnotation:  name,
				updatedAtAnnotation: s.now().UTC().Format(time.RFC3339),
			},
		},
		Data: map[string]string{dataKey: string(data)},
	}
	if fsops.IsDryRun() {
		log.Infof("[DRY-RUN] CREATE CONFIGMAP: %s/%s (%d bytes)", s.namespace, cm.Name, len(data))
		return nil
	}
	if _, err := s.configMaps().Create(ctx, cm, metav1.CreateOptions{}); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return ErrExists
		}
		return fmt.Errorf("create config map for %s: %w", name, err)
	}
	return nil
}

func (s *ConfigMapStore) Delete(ctx context.Context, name string) error {
	cm, err := s.get(ctx, name)
	if err != nil {
		return err
	}
	if fsops.IsDryRun() {
		log.Infof("[DRY-RUN] DELETE CONFIGMAP: %s/%s", s.namespace, cm.Name)
		return nil
	}
	if err := s.configMaps().Delete(ctx, cm.Name, metav1.DeleteOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete config map for %s: %w", name, err)
	}
	return nil
}
